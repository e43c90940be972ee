package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseMinutes converts a "MM:SS" playing-time string to whole seconds.
// Empty or malformed input maps to 0.
func ParseMinutes(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	minutesPart, secondsPart, found := strings.Cut(value, ":")
	if !found {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(minutesPart))
	if err != nil || minutes < 0 {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(secondsPart))
	if err != nil || seconds < 0 || seconds > 59 {
		return 0
	}

	return minutes*60 + seconds
}

// FormatMinutes renders whole seconds back to "MM:SS".
func FormatMinutes(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// ClockToSeconds converts a period clock ("MM:SS" remaining) to seconds.
// Malformed clocks map to -1 so callers can skip them.
func ClockToSeconds(clock string) int {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return -1
	}
	minutesPart, secondsPart, found := strings.Cut(clock, ":")
	if !found {
		return -1
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(minutesPart))
	if err != nil || minutes < 0 {
		return -1
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(secondsPart))
	if err != nil || seconds < 0 || seconds > 59 {
		return -1
	}
	return minutes*60 + seconds
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"02.01.2006",
	"2 January, 2006",
	"January 2, 2006",
	"2 January 2006",
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseGameDate parses a provider game date, trying ISO forms first and
// falling back through the scraped formats. Unparseable input maps to now.
func ParseGameDate(value string) time.Time {
	if t, ok := parseDate(value); ok {
		return t
	}
	return time.Now().UTC()
}

// ParseBirthDate parses a provider birth date; unparseable input maps to
// nil rather than now.
func ParseBirthDate(value string) *time.Time {
	if t, ok := parseDate(value); ok {
		return &t
	}
	return nil
}

// HeightCM converts a height in meters to whole centimeters.
func HeightCM(meters float64) int {
	return int(math.Round(meters * 100))
}

// ParseHeightCM accepts both meter-form ("2.06") and centimeter-form
// ("206") height strings. Nil when absent or malformed.
func ParseHeightCM(value string) *int {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "m"))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil || parsed <= 0 {
		return nil
	}

	cm := 0
	if parsed < 3.0 {
		cm = HeightCM(parsed)
	} else {
		cm = int(math.Round(parsed))
	}
	if cm < 100 || cm > 260 {
		return nil
	}
	return &cm
}

// ParseOptionalInt parses a provider numeric string. Empty or malformed
// maps to 0; box-score fields treat missing as zero.
func ParseOptionalInt(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
