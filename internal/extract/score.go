// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/pdiddy/recipe-engine/pkg/types"
)

// keyFieldOrder fixes the iteration order for missing-field reporting
// and scoring. Key fields are the condition fields whose absence
// materially lowers confidence.
var keyFieldOrder = []string{
	"temperature_C",
	"growth_time_min",
	"pressure_Torr",
	"gas_flows_sccm",
	"substrate",
	"mo_source",
	"s_source",
}

// defaultKeyFieldPenalties is the confidence cost of a null key field.
// The thermodynamic parameters weigh more than the setup description.
var defaultKeyFieldPenalties = map[string]float64{
	"temperature_C":   0.15,
	"growth_time_min": 0.12,
	"pressure_Torr":   0.12,
	"gas_flows_sccm":  0.10,
	"substrate":       0.08,
	"mo_source":       0.10,
	"s_source":        0.10,
}

// defaultFlagPenalties is the confidence cost per quality flag. Flags
// absent from this table (evidence-only labels like review_table_row,
// or field_missing, which is already priced through the key-field
// penalty) cost nothing.
var defaultFlagPenalties = map[string]float64{
	types.FlagRangeUnresolved:    0.08,
	types.FlagTemperatureProfile: 0.12,
	types.FlagApproximateValue:   0.03,
	types.FlagPressureUnknown:    0.08,
	types.FlagAmbientUnresolved:  0.05,
	types.FlagGasFlowPartial:     0.05,
	types.FlagRowSplitAmbiguous:  0.10,
	types.FlagInequalityValue:    0.05,
	types.FlagSulfurAmountVague:  0.05,
}

// Score derives the quality block for one record: a confidence score
// starting at 1.0 with penalties for null key fields and for every
// penalized flag, clamped to [0,1], plus the ordered missing-field
// list. Deterministic given the record contents; no history across
// records.
func Score(cond types.Condition, flags []string, cfg types.ScoringConfig) types.Quality {
	keyPenalties := cfg.KeyFieldPenalties
	if keyPenalties == nil {
		keyPenalties = defaultKeyFieldPenalties
	}
	flagPenalties := cfg.FlagPenalties
	if flagPenalties == nil {
		flagPenalties = defaultFlagPenalties
	}

	confidence := 1.0
	missing := []string{}
	for _, name := range keyFieldOrder {
		if !fieldIsNull(cond, name) {
			continue
		}
		missing = append(missing, name)
		confidence -= keyPenalties[name]
	}

	for _, f := range flags {
		confidence -= flagPenalties[f]
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return types.Quality{
		Confidence:    confidence,
		Flags:         flags,
		MissingFields: missing,
	}
}

// fieldIsNull reports whether a key condition field carries no value.
// The gas-flow field counts as null when no gas+flow pair parsed.
func fieldIsNull(cond types.Condition, name string) bool {
	switch name {
	case "temperature_C":
		return cond.TemperatureC == nil
	case "growth_time_min":
		return cond.GrowthTimeMin == nil
	case "pressure_Torr":
		return cond.PressureTorr == nil
	case "gas_flows_sccm":
		return len(cond.GasFlowsSCCM) == 0 && len(cond.CarrierGas) == 0
	case "substrate":
		return cond.Substrate == nil
	case "mo_source":
		return cond.MoSource == nil
	case "s_source":
		return cond.SSource == nil
	}
	return false
}
