package league

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// League is one competition a source feeds games for.
type League struct {
	ID      string
	Code    string
	Name    string
	Country string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Code == "" {
		return fmt.Errorf("league code is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}

// Season is one competition year. Name is always the normalized YYYY-YY form.
type Season struct {
	ID        string
	LeagueID  string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsCurrent bool
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("season league id is required")
	}
	if _, err := StartYear(s.Name); err != nil {
		return fmt.Errorf("season name %q is not normalized: %w", s.Name, err)
	}

	return nil
}

// SeasonName renders the canonical YYYY-YY form for a start year,
// e.g. 2024 -> "2024-25", 1999 -> "1999-00".
func SeasonName(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// NormalizeSeasonName accepts the season spellings the providers use and
// returns the canonical YYYY-YY form: "2024-25", "2024/25", "2024/2025",
// "2024-2025", bare "2024", and competition codes like "E2024" or "U2024".
func NormalizeSeasonName(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("season name is empty")
	}

	// Competition tag prefix, e.g. E2024.
	if len(value) == 5 && !isDigit(value[0]) {
		value = value[1:]
	}

	for _, sep := range []string{"-", "/"} {
		first, _, found := strings.Cut(value, sep)
		if !found {
			continue
		}
		year, err := parseStartYear(first)
		if err != nil {
			return "", fmt.Errorf("season name %q: %w", raw, err)
		}
		return SeasonName(year), nil
	}

	year, err := parseStartYear(value)
	if err != nil {
		return "", fmt.Errorf("season name %q: %w", raw, err)
	}
	return SeasonName(year), nil
}

// StartYear extracts the four-digit start year from a normalized or
// normalizable season name.
func StartYear(name string) (int, error) {
	normalized, err := NormalizeSeasonName(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(normalized[:4])
}

func parseStartYear(value string) (int, error) {
	value = strings.TrimSpace(value)
	if len(value) != 4 {
		return 0, fmt.Errorf("start year %q must be four digits", value)
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("start year %q is not numeric", value)
	}
	if year < 1900 || year > 2100 {
		return 0, fmt.Errorf("start year %d out of range", year)
	}
	return year, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
