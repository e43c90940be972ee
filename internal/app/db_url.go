package app

import (
	"net/url"
	"strings"
)

const defaultDBName = "courtsync"

// NormalizeDBURL appends disable_prepared_binary_result=yes when asked.
// lib/pq needs the flag behind pgbouncer in transaction pooling mode; an
// explicit value in the URL always wins. Shared with cmd/migration so
// the tool and the service dial the database the same way.
func NormalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Has("disable_prepared_binary_result") {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromURL extracts the database name for span attribution. Both
// URL and key=value DSN forms are accepted; anything unparsable falls
// back to the service default.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		if name := strings.TrimPrefix(parsed.Path, "/"); name != "" {
			return name
		}
		return defaultDBName
	}

	for _, field := range strings.Fields(trimmed) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key != "dbname" {
			continue
		}
		if name := strings.Trim(value, `"'`); name != "" {
			return name
		}
	}
	return defaultDBName
}
