package menuimport

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanName canonicalizes an operator-entered name: NFC so visually
// identical strings compare equal, surrounding whitespace trimmed, runs of
// inner whitespace collapsed to single spaces.
func CleanName(s string) string {
	normalized := norm.NFC.String(s)
	return strings.Join(strings.Fields(normalized), " ")
}
