// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tableparse

import (
	"regexp"
	"strings"
)

// Field is a canonical column role recognized by the normalizers.
type Field string

const (
	// FieldTempTime is a combined temperature+time column ("Temp. Time").
	FieldTempTime Field = "temp_time"

	FieldTemperature Field = "temperature"
	FieldGrowthTime  Field = "growth_time"
	FieldPressure    Field = "pressure"
	FieldGasFlow     Field = "gas_flow"
	FieldSubstrate   Field = "substrate"
	FieldMoSource    Field = "mo_source"
	FieldSSource     Field = "s_source"
	FieldRef         Field = "ref"

	// FieldUnmapped marks a column no alias matched. Its cells are
	// ignored by normalizers but kept verbatim for evidence and debug.
	FieldUnmapped Field = "unmapped"
)

// fieldAlias pairs a canonical field with the header substrings that
// select it. Matching is first-match-wins in declaration order, so the
// combined temp+time aliases come before the bare "temp" and "time"
// ones, and "sulfur source" wins over the generic "source".
type fieldAlias struct {
	field   Field
	aliases []string
}

// aliasTable is plain data: adding a column vocabulary means adding a
// row here, not touching the matcher.
var aliasTable = []fieldAlias{
	{FieldTempTime, []string{"temp time", "temperature time"}},
	{FieldMoSource, []string{"mo source", "mo precursor", "metal source"}},
	{FieldSSource, []string{"sulfur source", "s source", "chalcogen source"}},
	{FieldTemperature, []string{"growth temperature", "temperature", "temp"}},
	{FieldGrowthTime, []string{"growth time", "time", "duration"}},
	{FieldPressure, []string{"pressure"}},
	{FieldGasFlow, []string{"carrier gas", "flow rate", "gas flow"}},
	{FieldSubstrate, []string{"substrate", "set up"}},
	{FieldRef, []string{"ref"}},
}

// HeaderMapping assigns a canonical field to each header column, by
// index. Built once per table and immutable thereafter.
type HeaderMapping []Field

// nonAlnumRe matches everything normalizeHeader replaces with a space.
var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeader lowercases a header cell and folds punctuation into
// single spaces, so "Substrate/ Set-up" and "Temp. Time" match their
// aliases.
func normalizeHeader(cell string) string {
	s := strings.ToLower(cell)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// MapHeader maps every header cell to a canonical field via substring
// containment against the alias table. Unmatched cells map to
// FieldUnmapped. Deterministic: the same header always yields the same
// mapping.
func MapHeader(header []string) HeaderMapping {
	mapping := make(HeaderMapping, len(header))
	for i, cell := range header {
		mapping[i] = matchField(normalizeHeader(cell))
	}
	return mapping
}

func matchField(norm string) Field {
	if norm == "" {
		return FieldUnmapped
	}
	for _, fa := range aliasTable {
		for _, alias := range fa.aliases {
			if strings.Contains(norm, alias) {
				return fa.field
			}
		}
	}
	return FieldUnmapped
}

// ColumnsFor returns the column indexes mapped to a field, in order.
func (m HeaderMapping) ColumnsFor(f Field) []int {
	var cols []int
	for i, mapped := range m {
		if mapped == f {
			cols = append(cols, i)
		}
	}
	return cols
}
