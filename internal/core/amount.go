// Package core holds the domain model shared by storage, services and the
// HTTP layer: resource records, payload validation and the pagination types.
//
// Monetary values are carried as exact-precision decimal strings end to end.
// They are parsed only to validate and canonicalize them, never converted to
// floats.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeAmount validates s as a non-negative decimal and returns its
// canonical string form ("007.50" becomes "7.5"). Zero is a valid amount.
func NormalizeAmount(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", ErrInvalidAmount
	}
	if d.IsNegative() {
		return "", ErrInvalidAmount
	}
	return d.String(), nil
}

// OptionalText converts an optional form value to its stored representation.
// Empty or whitespace-only input means "absent" and maps to nil, so joins
// and equality checks never match on the empty string.
//
// All optional text fields on every resource go through this one function.
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// TextOrEmpty is the inverse of OptionalText, for layers that want a plain
// string again.
func TextOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
