// Package utils provides common utility functions.
package utils

import "unicode/utf8"

// MaskKey masks an API key for safe logging (shows first 8 and last 4 chars).
// Use this to avoid logging sensitive credentials in plain text.
func MaskKey(key string) string {
	if key == "" {
		return "(empty)"
	}
	if len(key) < 16 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}

// TruncateRunes returns at most max runes of s and whether it was cut.
// Never splits a UTF-8 sequence.
func TruncateRunes(s string, max int) (string, bool) {
	if max < 0 {
		max = 0
	}
	if len(s) <= max {
		return s, false
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// TruncateForLog shortens s for log fields, marking the cut.
func TruncateForLog(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	out, _ := TruncateRunes(s, max)
	return out + "...(truncated)"
}
