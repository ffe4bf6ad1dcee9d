// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and blank strings, trimming whitespace from
// each element. First-seen order is preserved.
//
//	DedupeAndTrim([]string{"  GDP ", "CPI", "GDP", "", "  "})
//	// Returns: []string{"GDP", "CPI"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, func(s string) string { return s })
}

// DedupeAndTrimFold is like DedupeAndTrim but compares case-insensitively.
// The first spelling seen is the one kept.
//
//	DedupeAndTrimFold([]string{"Unemployment", "unemployment ", "CPI"})
//	// Returns: []string{"Unemployment", "CPI"}
func DedupeAndTrimFold(values []string) []string {
	return dedupe(values, strings.ToLower)
}

func dedupe(values []string, key func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		k := key(trimmed)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, trimmed)
	}

	return result
}
