// Package menuimport loads an operator-authored menu file (YAML or JSON),
// validates it against an embedded CUE schema, and normalizes it into the
// wire model ready for publishing.
//
// Validation is schema-first: the CUE definition is the single source of
// truth for what a well-formed menu is, and every violation is reported
// (no fail-fast), so the operator fixes the whole file in one pass.
package menuimport
