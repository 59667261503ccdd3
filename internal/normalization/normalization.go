package normalization

import (
	"strings"
)

// ParseInputString trims surrounding whitespace and lowercases user-supplied
// identifiers (emails, filters) so lookups stay case-insensitive.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimInputString trims without lowercasing, for free-text fields.
func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}
