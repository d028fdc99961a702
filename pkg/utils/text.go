// Package utils holds small helpers shared across packages: logging setup,
// vector math, and text formatting.
package utils

// Truncate shortens s to at most max runes, appending "..." when anything
// was cut. Non-positive max returns s unchanged. Cutting on runes keeps
// multi-byte text intact.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
