// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Quality flag labels. Every null condition field is accompanied by at
// least one of these; consumers can reconstruct why a value is absent
// or transformed without re-reading the source table.
const (
	FlagFieldMissing       = "field_missing"
	FlagApproximateValue   = "approximate_value_present"
	FlagRangeUnresolved    = "range_value_unresolved"
	FlagTemperatureProfile = "temperature_profile_unparsed"
	FlagPressureAmbient    = "pressure_assumed_ambient"
	FlagPressureConverted  = "pressure_unit_converted"
	FlagPressureUnknown    = "pressure_unit_unknown"
	FlagAmbientUnresolved  = "pressure_ambient_unresolved"
	FlagGasFlowPartial     = "gas_flow_partial_parse"
	FlagRowSplit           = "row_split_into_multiple_conditions"
	FlagRowSplitAmbiguous  = "row_split_ambiguous"
	FlagInequalityValue    = "inequality_value_present"
	FlagSulfurAmountVague  = "sulfur_amount_vague"
	FlagReviewTableRow     = "review_table_row"
)

// PaperMeta identifies the source publication of a table. The engine
// passes it through unchanged; nil fields serialize as JSON null.
type PaperMeta struct {
	DOI     *string `json:"doi" yaml:"doi"`
	Title   *string `json:"title" yaml:"title"`
	Year    *int    `json:"year" yaml:"year"`
	Venue   *string `json:"venue" yaml:"venue"`
	TableID *string `json:"table_id" yaml:"table_id"`
}

// Condition holds the normalized growth parameters for one experimental
// condition. Scalar fields are pointers so an unparseable or absent cell
// serializes as null rather than a zero value.
type Condition struct {
	TemperatureC  *float64           `json:"temperature_C" yaml:"temperature_C"`
	GrowthTimeMin *float64           `json:"growth_time_min" yaml:"growth_time_min"`
	PressureTorr  *float64           `json:"pressure_Torr" yaml:"pressure_Torr"`
	CarrierGas    []string           `json:"carrier_gas" yaml:"carrier_gas"`
	GasFlowsSCCM  map[string]float64 `json:"gas_flows_sccm" yaml:"gas_flows_sccm"`
	Substrate     *string            `json:"substrate" yaml:"substrate"`
	MoSource      *string            `json:"mo_source" yaml:"mo_source"`
	SSource       *string            `json:"s_source" yaml:"s_source"`
}

// Outcomes reserves the measured-result fields for later phases of the
// pipeline. All fields stay null in table extraction.
type Outcomes struct {
	DeviceType          *string  `json:"device_type" yaml:"device_type"`
	MobilityCm2Vs       *float64 `json:"mobility_cm2_Vs" yaml:"mobility_cm2_Vs"`
	OnOffRatio          *float64 `json:"on_off_ratio" yaml:"on_off_ratio"`
	VthV                *float64 `json:"vth_V" yaml:"vth_V"`
	ContactResistance   *float64 `json:"contact_resistance_Ohm_um" yaml:"contact_resistance_Ohm_um"`
	YieldPercent        *float64 `json:"yield_percent" yaml:"yield_percent"`
	LayerCount          *float64 `json:"layer_count" yaml:"layer_count"`
	DomainSizeUm        *float64 `json:"domain_size_um" yaml:"domain_size_um"`
	DefectDensityPerCm2 *float64 `json:"defect_density_cm2" yaml:"defect_density_cm2"`
}

// EvidenceSnippet links a condition field back to the verbatim cell text
// that produced it. Text is never synthesized or rewritten.
type EvidenceSnippet struct {
	Field    string `json:"field" yaml:"field"`
	Text     string `json:"text" yaml:"text"`
	RowIndex int    `json:"row_index" yaml:"row_index"`
}

// Quality summarizes extraction certainty for one record.
type Quality struct {
	// Confidence is a score in [0,1] derived from the flag set and the
	// missing key fields. Deterministic given the record contents.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Flags lists the quality labels raised during normalization, in
	// field order, deduplicated, with row-level flags last.
	Flags []string `json:"flags" yaml:"flags"`

	// MissingFields names the key condition fields whose value is null.
	MissingFields []string `json:"missing_fields" yaml:"missing_fields"`
}

// ConditionRecord is one experimental condition extracted from one table
// row (or sub-row, when a row encodes several paired conditions). A
// record is immutable once built and maps to one JSONL output line.
type ConditionRecord struct {
	// RecordID is a stable short hash of (doi, table, row, sub-row),
	// consistent across re-extractions of unchanged input.
	RecordID string `json:"record_id" yaml:"record_id"`

	Paper     PaperMeta         `json:"paper" yaml:"paper"`
	Condition Condition         `json:"condition" yaml:"condition"`
	Outcomes  Outcomes          `json:"outcomes" yaml:"outcomes"`
	Evidence  []EvidenceSnippet `json:"evidence" yaml:"evidence"`
	Quality   Quality           `json:"quality" yaml:"quality"`
}
