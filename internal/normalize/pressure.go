// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"math"
	"regexp"
	"strings"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// paPerTorr converts pascal readings to Torr.
const paPerTorr = 133.322

var (
	pascalRe = regexp.MustCompile(`(?i)(` + numberPat + `)\s*Pa\b`)
	torrRe   = regexp.MustCompile(`(?i)(` + numberPat + `)\s*Torr\b`)
)

// Pressure parses a pressure cell into Torr. "ambient"/"atmospheric"
// follows the configured policy: either assumed 760 Torr or left null,
// flagged either way. Pascal readings convert at 133.322 Pa/Torr,
// rounded to three decimals, with the conversion flagged. Torr readings
// pass through unchanged. Anything else stays null with
// pressure_unit_unknown.
func Pressure(cell string, policy types.AmbientPressurePolicy) (*float64, []string) {
	if IsMissing(cell) {
		return nil, []string{types.FlagFieldMissing}
	}
	raw := Clean(cell)

	switch strings.ToLower(raw) {
	case "ambient", "atmospheric":
		if policy == types.AmbientNull {
			return nil, []string{types.FlagAmbientUnresolved}
		}
		v := 760.0
		return &v, []string{types.FlagPressureAmbient}
	}

	if m := pascalRe.FindStringSubmatch(raw); m != nil {
		if pa, ok := parseFloat(m[1]); ok {
			torr := math.Round(pa/paPerTorr*1000) / 1000
			return &torr, []string{types.FlagPressureConverted}
		}
	}
	if m := torrRe.FindStringSubmatch(raw); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			return &v, nil
		}
	}
	return nil, []string{types.FlagPressureUnknown}
}
