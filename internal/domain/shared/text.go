package shared

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims s and converts it to Unicode NFC, so a composed "é"
// and an "e" followed by a combining accent compare equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
