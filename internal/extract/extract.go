// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns parsed recipe tables into condition records:
// one record per experimental condition, with provenance snippets and a
// quality block. The pipeline is a pure in-memory transformation — the
// same input always yields byte-identical output.
// See docs/ARCHITECTURE § Extraction.
package extract

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/recipe-engine/internal/normalize"
	"github.com/pdiddy/recipe-engine/internal/tableparse"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Failed    int
	Records   int
}

// HasFailures reports whether any table failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ExtractTable runs the engine over one raw table block and returns the
// condition records in (row, sub-row) order. The only error is a block
// with no header line; every per-cell or per-row anomaly is recovered
// locally as a quality flag.
func ExtractTable(text string, paper types.PaperMeta, cfg types.ExtractionConfig) ([]types.ConditionRecord, error) {
	table, err := tableparse.Parse(text)
	if err != nil {
		return nil, err
	}
	mapping := tableparse.MapHeader(table.Header)

	var records []types.ConditionRecord
	for i, row := range table.Rows {
		rowIndex := i + 1
		group := tableparse.SplitRow(row, mapping)
		for subIndex, sub := range group.SubRows {
			rec := buildRecord(recordInput{
				paper:    paper,
				header:   table.Header,
				mapping:  mapping,
				row:      sub,
				rowIndex: rowIndex,
				subIndex: subIndex,
				split:    len(group.SubRows) > 1,
				rowFlags: group.Flags,
			}, cfg)
			records = append(records, rec)
		}
	}
	return records, nil
}

// ExtractAll processes each input file as one table block, appending
// JSONL records to out and progress lines to w. A failed table is
// reported and counted but does not stop the batch.
func ExtractAll(inputs []string, paper types.PaperMeta, cfg types.ExtractionConfig, out, w io.Writer) (BatchSummary, error) {
	var summary BatchSummary

	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		meta := paper
		if meta.TableID == nil {
			id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			meta.TableID = &id
		}

		records, err := ExtractTable(string(data), meta, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		if err := WriteRecords(out, records); err != nil {
			return summary, fmt.Errorf("writing records for %s: %w", path, err)
		}

		fmt.Fprintf(w, "extracted %s (%d records)\n", path, len(records))
		summary.Extracted++
		summary.Records += len(records)
	}

	return summary, nil
}

// WriteRecords emits one compact JSON object per line, in record order.
func WriteRecords(out io.Writer, records []types.ConditionRecord) error {
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling record %s: %w", rec.RecordID, err)
		}
		if _, err := out.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.RecordID, err)
		}
	}
	return nil
}

// recordInput bundles everything buildRecord needs for one sub-row.
type recordInput struct {
	paper    types.PaperMeta
	header   []string
	mapping  tableparse.HeaderMapping
	row      []string
	rowIndex int
	subIndex int
	split    bool
	rowFlags []string
}

// buildRecord assembles one ConditionRecord: normalized fields, verbatim
// evidence for every populated mapped cell, and the quality block.
func buildRecord(in recordInput, cfg types.ExtractionConfig) types.ConditionRecord {
	cond := types.Condition{
		CarrierGas:   []string{},
		GasFlowsSCCM: map[string]float64{},
	}
	var flags []string
	var evidence []types.EvidenceSnippet
	var citedRef string

	addEvidence := func(field, cell string) {
		if strings.TrimSpace(cell) == "" {
			return
		}
		evidence = append(evidence, types.EvidenceSnippet{
			Field:    field,
			Text:     cell,
			RowIndex: in.rowIndex,
		})
	}

	policy := cfg.AmbientPressure
	if policy == "" {
		policy = types.AmbientAssume760
	}

	// Gas flow may span two columns (carrier gas + flow rate); their
	// cells are normalized as one text but evidenced separately.
	var gasCells []string

	for col, field := range in.mapping {
		cell := tableparse.CellAt(in.row, col)

		switch field {
		case tableparse.FieldTempTime:
			tempC, timeMin, fl := normalize.TempTime(cell)
			cond.TemperatureC = tempC
			cond.GrowthTimeMin = timeMin
			flags = append(flags, fl...)
			addEvidence("temperature_C", cell)
			addEvidence("growth_time_min", cell)

		case tableparse.FieldTemperature:
			v, fl := normalize.Temperature(cell)
			cond.TemperatureC = v
			flags = append(flags, fl...)
			addEvidence("temperature_C", cell)

		case tableparse.FieldGrowthTime:
			v, fl := normalize.GrowthTime(cell)
			cond.GrowthTimeMin = v
			flags = append(flags, fl...)
			addEvidence("growth_time_min", cell)

		case tableparse.FieldPressure:
			v, fl := normalize.Pressure(cell, policy)
			cond.PressureTorr = v
			flags = append(flags, fl...)
			addEvidence("pressure_Torr", cell)

		case tableparse.FieldGasFlow:
			gasCells = append(gasCells, cell)
			addEvidence("gas_flows_sccm", cell)

		case tableparse.FieldSubstrate:
			v, fl := normalize.Text(cell)
			cond.Substrate = v
			flags = append(flags, fl...)
			addEvidence("substrate", cell)

		case tableparse.FieldMoSource:
			v, fl := normalize.Text(cell)
			cond.MoSource = v
			flags = append(flags, fl...)
			addEvidence("mo_source", cell)

		case tableparse.FieldSSource:
			v, fl := normalize.SulfurText(cell)
			cond.SSource = v
			flags = append(flags, fl...)
			addEvidence("s_source", cell)

		case tableparse.FieldRef:
			citedRef = normalize.Clean(cell)
			addEvidence("ref", cell)

		case tableparse.FieldUnmapped:
			// Kept verbatim for debugging, never normalized.
			if col < len(in.header) {
				addEvidence("unmapped:"+in.header[col], cell)
			}
		}
	}

	if len(gasCells) > 0 {
		gases, flows, fl := normalize.GasFlow(strings.Join(gasCells, " "))
		if gases != nil {
			cond.CarrierGas = gases
		}
		if flows != nil {
			cond.GasFlowsSCCM = flows
		}
		flags = append(flags, fl...)
	}

	flags = append(flags, in.rowFlags...)
	flags = ensureNullsExplained(cond, flags)
	if citedRef != "" {
		flags = append(flags, "cited_ref_"+strings.ReplaceAll(citedRef, " ", "_"))
	}
	flags = append(flags, types.FlagReviewTableRow)

	quality := Score(cond, dedupeFlags(flags), cfg.Scoring)

	return types.ConditionRecord{
		RecordID:  recordID(in.paper, in.rowIndex, in.subIndex, in.split),
		Paper:     in.paper,
		Condition: cond,
		Outcomes:  types.Outcomes{},
		Evidence:  evidence,
		Quality:   quality,
	}
}

// nullCover lists, per key field, the flags that already explain a null
// value. Used to keep the null-has-flag invariant when a column is
// absent from the table altogether.
var nullCover = map[string][]string{
	"temperature_C":   {types.FlagFieldMissing, types.FlagApproximateValue, types.FlagTemperatureProfile},
	"growth_time_min": {types.FlagFieldMissing, types.FlagRangeUnresolved},
	"pressure_Torr":   {types.FlagFieldMissing, types.FlagPressureUnknown, types.FlagAmbientUnresolved},
	"gas_flows_sccm":  {types.FlagFieldMissing, types.FlagGasFlowPartial},
	"substrate":       {types.FlagFieldMissing},
	"mo_source":       {types.FlagFieldMissing},
	"s_source":        {types.FlagFieldMissing},
}

// ensureNullsExplained appends field_missing when a null key field has
// no flag accounting for it — the case of a table that simply lacks
// the column. Every null in the output stays explainable.
func ensureNullsExplained(cond types.Condition, flags []string) []string {
	for field, cover := range nullCover {
		if !fieldIsNull(cond, field) {
			continue
		}
		covered := false
		for _, c := range cover {
			for _, f := range flags {
				if f == c {
					covered = true
				}
			}
		}
		if !covered {
			return append(flags, types.FlagFieldMissing)
		}
	}
	return flags
}

// dedupeFlags removes repeated flags, keeping first-occurrence order.
func dedupeFlags(flags []string) []string {
	seen := make(map[string]bool, len(flags))
	out := flags[:0]
	for _, f := range flags {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// recordID generates a deterministic ID from the paper identity and the
// source row position. Split sub-rows get a 1-based suffix so sibling
// conditions from one source row stay distinguishable.
func recordID(paper types.PaperMeta, rowIndex, subIndex int, split bool) string {
	doi, tableID := "", ""
	if paper.DOI != nil {
		doi = *paper.DOI
	}
	if paper.TableID != nil {
		tableID = *paper.TableID
	}
	key := fmt.Sprintf("%s_r%d", tableID, rowIndex)
	if split {
		key = fmt.Sprintf("%s_%d", key, subIndex+1)
	}

	h := sha256.New()
	h.Write([]byte(doi))
	h.Write([]byte(key))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
