package domain

import "strings"

// NormalizeUsername folds a username for comparison. Usernames are stored as
// typed but matched case-insensitively with surrounding whitespace ignored.
func NormalizeUsername(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameUsername reports whether a and b name the same commander.
func SameUsername(a, b string) bool {
	return NormalizeUsername(a) == NormalizeUsername(b)
}
