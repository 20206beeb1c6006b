// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tableparse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// splittableFields declares the column roles eligible for row
// splitting: paired source loads that some tables list several of in a
// single row. Configuration data, not logic — new repeatable roles go
// here.
var splittableFields = map[Field]bool{
	FieldMoSource: true,
	FieldSSource:  true,
}

var (
	// valueTokenRe matches a token that is one numeric value, optionally
	// preceded by an inequality sign and followed by a mass unit. The
	// anchors matter: a token merely containing a digit ("MoO3") is a
	// name, not a value, and must not make its cell a split candidate.
	valueTokenRe = regexp.MustCompile(`^[<>]?\s*[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?(?:\s*(?:mg|µg|ug|g))?$`)

	listDelimRe = regexp.MustCompile(`[,;/]`)

	// pairSeqRe matches one "number + mass unit" token, optionally
	// preceded by an inequality sign, e.g. "0.0003 g" or "<0.1 g".
	// The unit set is narrow so prose like "MoO3 powder 0.4 g" never
	// looks like a two-token list.
	pairSeqRe = regexp.MustCompile(`[<>]?\s*[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?\s*(?:mg|µg|ug|g)\b`)
)

// SplitGroup is one parsed row and the aligned sub-rows it expands
// into. Every sub-row has the parent's column count; non-candidate
// cells are copied verbatim into each sub-row.
type SplitGroup struct {
	Row     []string
	SubRows [][]string

	// Flags carries row_split_into_multiple_conditions or
	// row_split_ambiguous; empty for ordinary rows.
	Flags []string
}

// SplitRow expands a row that encodes multiple paired conditions.
// A cell is a split candidate when its column maps to a splittable
// field and it holds two or more numeric tokens separated by a list
// delimiter or forming a number+unit sequence. The row splits only when
// at least two candidate columns agree on the token count; a lone
// candidate or a count mismatch keeps the row whole with the
// row_split_ambiguous flag, cells verbatim. Equal counts are required
// so the splitter never fabricates cross-products of unrelated values.
func SplitRow(row []string, mapping HeaderMapping) SplitGroup {
	candidates := map[int][]string{}
	for col, field := range mapping {
		if !splittableFields[field] {
			continue
		}
		if tokens := splitTokens(CellAt(row, col)); len(tokens) >= 2 {
			candidates[col] = tokens
		}
	}

	if len(candidates) == 0 {
		return SplitGroup{Row: row, SubRows: [][]string{row}}
	}

	n := -1
	for _, tokens := range candidates {
		if n == -1 {
			n = len(tokens)
		} else if len(tokens) != n {
			n = 0
		}
	}
	if len(candidates) < 2 || n == 0 {
		return SplitGroup{
			Row:     row,
			SubRows: [][]string{row},
			Flags:   []string{types.FlagRowSplitAmbiguous},
		}
	}

	subRows := make([][]string, n)
	for i := 0; i < n; i++ {
		sub := make([]string, len(row))
		copy(sub, row)
		for col, tokens := range candidates {
			sub[col] = tokens[i]
		}
		subRows[i] = sub
	}
	return SplitGroup{
		Row:     row,
		SubRows: subRows,
		Flags:   []string{types.FlagRowSplit},
	}
}

// splitTokens extracts the candidate value tokens from a cell. Returns
// nil when the cell does not look like a multi-value list.
func splitTokens(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	if listDelimRe.MatchString(cell) {
		var tokens []string
		for _, part := range listDelimRe.Split(cell, -1) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			tokens = append(tokens, part)
		}
		numeric := 0
		for _, tok := range tokens {
			if valueTokenRe.MatchString(tok) {
				numeric++
			}
		}
		if numeric >= 2 {
			return tokens
		}
		return nil
	}

	// Whitespace-separated sequence of number+unit pairs, e.g.
	// "0.0003 g 0.0003 g 0.0005 g".
	if pairs := pairSeqRe.FindAllString(cell, -1); len(pairs) >= 2 {
		tokens := make([]string, 0, len(pairs))
		for _, p := range pairs {
			tokens = append(tokens, strings.TrimSpace(p))
		}
		return tokens
	}
	return nil
}
