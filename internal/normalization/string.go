package normalization

import (
	"strings"
)

// ParseInputString lowercases and trims identity-style inputs (usernames,
// emails) so lookups are case-insensitive.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimInputString trims without changing case, for free-text fields.
func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}
