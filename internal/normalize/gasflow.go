// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// knownGases lists the carrier and reactive gas symbols the flow parser
// recognizes. Longer symbols come first so the alternation never
// truncates H2S into H2.
var knownGases = []string{
	"H2S", "NH3", "CH4", "C2H4", "SF6", "N2O", "Air",
	"Ar", "N2", "H2", "O2", "He",
}

// gasPairRe matches one "<GasSymbol><optional separator><number> sccm"
// pair, with or without whitespace between symbol and number, so
// "Ar 10 sccm", "Ar14 sccm", and "H2/2 sccm" (after slash folding) all
// parse.
var gasPairRe = regexp.MustCompile(
	`(` + strings.Join(knownGases, "|") + `)\s*(` + numberPat + `)\s*sccm\b`,
)

// GasFlow parses a combined carrier-gas/flow-rate cell into the ordered
// list of distinct gas symbols and a gas→sccm map. Residue that matches
// no pair pattern never aborts the cell: matched pairs are kept and the
// cell is flagged gas_flow_partial_parse.
func GasFlow(cell string) (gases []string, flows map[string]float64, flags []string) {
	if IsMissing(cell) {
		return nil, nil, []string{types.FlagFieldMissing}
	}
	raw := Clean(cell)

	// Slashes, commas, and semicolons separate pairs ("Ar/H2" style
	// compounds list each gas with its own flow); folding them to
	// spaces keeps one pattern.
	folded := strings.NewReplacer("/", " ", ",", " ", ";", " ").Replace(raw)

	matches := gasPairRe.FindAllStringSubmatchIndex(folded, -1)
	flows = map[string]float64{}
	for _, m := range matches {
		gas := folded[m[2]:m[3]]
		val, ok := parseFloat(folded[m[4]:m[5]])
		if !ok {
			continue
		}
		if _, seen := flows[gas]; !seen {
			gases = append(gases, gas)
		}
		flows[gas] = val
	}

	// Anything left over beyond separators is unparsed residue.
	residue := len(strings.ReplaceAll(folded, " ", "")) != lenWithoutSpaces(matches, folded)
	if len(matches) == 0 || residue {
		flags = append(flags, types.FlagGasFlowPartial)
	}
	return gases, flows, flags
}

// lenWithoutSpaces sums the non-space length of all matched spans.
func lenWithoutSpaces(matches [][]int, s string) int {
	total := 0
	for _, m := range matches {
		total += len(strings.ReplaceAll(s[m[0]:m[1]], " ", ""))
	}
	return total
}
