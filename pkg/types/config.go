// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AmbientPressurePolicy selects how the pressure normalizer treats
// "ambient"/"atmospheric" cells. Both behaviors are documented in the
// source literature, so the choice is configuration, not code.
type AmbientPressurePolicy string

const (
	// AmbientAssume760 records 760 Torr with the pressure_assumed_ambient flag.
	AmbientAssume760 AmbientPressurePolicy = "assume-760"

	// AmbientNull leaves the pressure null with the pressure_ambient_unresolved flag.
	AmbientNull AmbientPressurePolicy = "null"
)

// ExtractionConfig holds settings for the table extraction stage.
type ExtractionConfig struct {
	// AmbientPressure selects the "ambient" cell policy (default assume-760).
	AmbientPressure AmbientPressurePolicy `json:"ambient_pressure" yaml:"ambient_pressure"`

	// Scoring overrides the default confidence penalty weights.
	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`
}

// ScoringConfig carries confidence-scoring weights. Nil maps fall back
// to the built-in defaults so a partial override is safe.
type ScoringConfig struct {
	// KeyFieldPenalties maps a canonical condition field name to the
	// amount subtracted when that field is null.
	KeyFieldPenalties map[string]float64 `json:"key_field_penalties" yaml:"key_field_penalties"`

	// FlagPenalties maps a quality flag to the amount subtracted when
	// it appears on a record.
	FlagPenalties map[string]float64 `json:"flag_penalties" yaml:"flag_penalties"`
}

// RecordStoreConfig holds settings for the record index.
type RecordStoreConfig struct {
	// RecordsDir is the base directory for records (contains extracted/, index/).
	RecordsDir string `json:"records_dir" yaml:"records_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extraction ExtractionConfig  `json:"extraction" yaml:"extraction"`
	Records    RecordStoreConfig `json:"records" yaml:"records"`
}
