package util

import "strings"

// Truthy reports whether s is a truthy flag value, such
// as "true", "1", "yes" or "on". The check is case-insensitive.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on":
		return true
	default:
		return false
	}
}
