// Package search provides the canonical string folding used by list
// filtering, so "CAFÉ", "café" and full-width input all match.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var folder = cases.Fold()

// Fold canonicalizes a string for matching: NFC, narrow width, case folded.
func Fold(s string) string {
	return folder.String(width.Narrow.String(norm.NFC.String(s)))
}

// Matches reports whether haystack contains needle after folding both.
// An empty needle matches everything.
func Matches(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}
