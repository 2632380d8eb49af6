package validation

import "strings"

const maskVisible = 4

// Mask hides all but the last four characters of an account or document
// number. Values of four characters or fewer are hidden entirely.
func Mask(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	runes := []rune(v)
	if len(runes) <= maskVisible {
		return strings.Repeat("*", len(runes))
	}
	hidden := len(runes) - maskVisible
	return strings.Repeat("*", hidden) + string(runes[hidden:])
}
