package app

import "strings"

// Spans carry a compacted copy of the SQL. The cap keeps jsonb payloads
// and long IN lists from bloating span attributes.
const maxTracedQueryLength = 512

func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
