package usecase

import (
	_ "embed"
	"strings"
	"unicode"
)

// The trailing-token lists are provider data, not code. Editing the data
// file is enough to teach the matchers a new roster quirk.
//
//go:embed name_tokens.txt
var nameTokensRaw string

var positionTokens, captainTokens = loadNameTokens(nameTokensRaw)

func loadNameTokens(raw string) (map[string]struct{}, map[string]struct{}) {
	positions := make(map[string]struct{})
	captains := make(map[string]struct{})

	current := positions
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch line {
		case "[positions]":
			current = positions
			continue
		case "[captains]":
			current = captains
			continue
		}
		current[strings.ToLower(line)] = struct{}{}
	}
	return positions, captains
}

// NormalizeName lowercases, collapses whitespace, and strips trailing
// position and captain tokens. Hebrew characters pass through unchanged
// since case folding does not affect them.
func NormalizeName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	fields := strings.Fields(name)

	for len(fields) > 1 {
		last := strings.TrimSuffix(fields[len(fields)-1], "|")
		if _, ok := positionTokens[last]; ok {
			fields = fields[:len(fields)-1]
			continue
		}
		if _, ok := captainTokens[last]; ok {
			fields = fields[:len(fields)-1]
			continue
		}
		break
	}

	return strings.Join(fields, " ")
}

// CompactName is the high-precision compare form: normalized, with all
// punctuation and whitespace removed.
func CompactName(raw string) string {
	normalized := NormalizeName(raw)
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitName splits a display name into first and last. Single-token names
// land in last name.
func SplitName(full string) (first, last string) {
	fields := strings.Fields(strings.TrimSpace(full))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
