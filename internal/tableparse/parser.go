// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tableparse turns a raw table block into a header, ordered data
// rows, and a column-to-field mapping.
// See docs/ARCHITECTURE § Table Parsing.
package tableparse

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoHeader reports a table block with no header line. It is the only
// hard failure in the parsing stage; everything else degrades to flags.
var ErrNoHeader = errors.New("table block has no header line")

// Cell delimiters: tabs when present, otherwise runs of two or more
// whitespace characters so single spaces inside a cell survive.
var (
	tabRunRe   = regexp.MustCompile(`\t+`)
	spaceRunRe = regexp.MustCompile(`\s{2,}`)
)

// Table is a parsed table block: the header cells and the data rows in
// source order. No cell-count validation happens here; rows shorter or
// longer than the header are handed to consumers as-is.
type Table struct {
	Header []string
	Rows   [][]string
}

// Parse splits a raw text block into header and data rows. The first
// non-blank line is the header; subsequent non-blank lines are rows.
// Returns ErrNoHeader when the block contains no non-blank line.
func Parse(text string) (*Table, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{Header: splitCells(lines[0])}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, splitCells(line))
	}
	return t, nil
}

// splitCells tokenizes one line into cells. Lines carrying a tab split
// on tab runs; otherwise runs of two or more whitespace characters
// delimit cells.
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	var parts []string
	if strings.ContainsRune(line, '\t') {
		parts = tabRunRe.Split(line, -1)
	} else {
		parts = spaceRunRe.Split(line, -1)
	}
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// CellAt returns the row cell for a column index, or "" when the row is
// shorter than the header. Padding instead of failing keeps a ragged
// row recoverable.
func CellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
