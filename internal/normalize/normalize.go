// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize parses single table cells into typed values plus
// quality flags. Every normalizer is a stateless pure function: a null
// result always carries at least one flag explaining it, and a flagged
// transformation (unit conversion, assumed ambient) never loses the
// verbatim source text, which the caller records as evidence.
// See docs/ARCHITECTURE § Normalization.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

const numberPat = `[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?`

var (
	wsRe     = regexp.MustCompile(`\s+`)
	numberRe = regexp.MustCompile(numberPat)
)

// dashCells are the placeholder glyphs papers use for "no value".
var dashCells = map[string]bool{"-": true, "–": true, "—": true}

// Clean collapses whitespace runs (including the narrow no-break space
// that PDF extraction leaves behind) and trims the cell.
func Clean(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// IsMissing reports whether a cleaned cell carries no value at all:
// empty, whitespace-only, or a lone dash placeholder.
func IsMissing(cell string) bool {
	c := Clean(cell)
	return c == "" || dashCells[c]
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Text normalizes a free-text cell (substrate, source descriptions).
// The value is the cleaned verbatim text; only a missing cell yields
// null. Inequality signs, vague amounts, and approximation markers in
// source cells raise supplementary flags without hiding the text.
func Text(cell string) (*string, []string) {
	c := Clean(cell)
	if IsMissing(cell) {
		return nil, []string{types.FlagFieldMissing}
	}

	var flags []string
	if strings.ContainsAny(c, "<>") {
		flags = append(flags, types.FlagInequalityValue)
	}
	if strings.Contains(c, "~") || strings.Contains(c, "∼") {
		flags = append(flags, types.FlagApproximateValue)
	}
	return &c, flags
}

// SulfurText is Text plus the vague-amount check specific to sulfur
// loads ("S rich" and friends carry no usable quantity).
func SulfurText(cell string) (*string, []string) {
	v, flags := Text(cell)
	if v != nil && strings.Contains(strings.ToLower(*v), "rich") {
		flags = append(flags, types.FlagSulfurAmountVague)
	}
	return v, flags
}
