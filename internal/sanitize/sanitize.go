// Package sanitize redacts credentials and bounds field sizes before a report is persisted.
package sanitize

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/interworky/error-tracker/internal/model"
)

// TruncationMarker is appended to any field cut to its bound.
const TruncationMarker = "... [truncated]"

var sensitiveParams = []string{"token", "key", "password", "secret"}

var sensitiveMetadataKeys = map[string]struct{}{
	"password": {},
	"token":    {},
	"key":      {},
	"secret":   {},
	"auth":     {},
}

// Report returns a copy of r that is safe to store. r is not modified.
func Report(r model.ErrorReport) model.ErrorReport {
	out := r
	out.Message = Truncate(SanitizeString(r.Message), model.MaxMessageLength)
	out.StackTrace = Truncate(SanitizeString(r.StackTrace), model.MaxStackTraceLength)
	out.SourceFile = Truncate(StripCredentials(r.SourceFile), model.MaxSourceFileLength)
	out.URL = Truncate(StripCredentials(r.URL), model.MaxURLLength)
	out.UserAgent = Truncate(SanitizeString(r.UserAgent), model.MaxUserAgentLength)
	out.Metadata = Metadata(r.Metadata)
	return out
}

// StripCredentials removes token/key/password/secret query parameters from a URL.
// Values that do not parse as URLs with a query are returned unchanged.
func StripCredentials(raw string) string {
	if !strings.Contains(raw, "?") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}

	q := u.Query()
	changed := false
	for name := range q {
		if isSensitiveParam(name) {
			q.Del(name)
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isSensitiveParam(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range sensitiveParams {
		if lower == p {
			return true
		}
	}
	return false
}

// Metadata drops sensitive keys (case-insensitive). Returns nil for empty input.
func Metadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if _, drop := sensitiveMetadataKeys[strings.ToLower(k)]; drop {
			continue
		}
		out[k] = v
	}
	return out
}

// Truncate keeps the first max runes of s and appends TruncationMarker when s is longer.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + TruncationMarker
}

// SanitizeString removes null bytes and control characters other than tab and newline.
func SanitizeString(input string) string {
	if input == "" {
		return input
	}
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
