// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/recipe-engine/internal/extract"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [tables...]",
	Short: "Extract condition records from recipe table blocks",
	Long: `Extract reads raw table blocks (header line plus delimited data rows)
and writes one JSONL condition record per experimental condition. Rows
encoding multiple paired source loads expand into one record each.

Paper metadata is passed through from --paper-meta and the individual
metadata flags; flags override the sidecar file field by field.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputs := args
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		inputs = append([]string{input}, inputs...)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input table: provide --input or positional files")
	}

	paper, err := paperMetaFromFlags(cmd)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	summary, err := extract.ExtractAll(inputs, paper, extractionConfig(), out, os.Stderr)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d table(s) failed extraction", summary.Failed)
	}
	fmt.Fprintf(os.Stderr, "extracted %d record(s) from %d table(s)\n", summary.Records, summary.Extracted)
	return nil
}

// paperMetaFromFlags merges the optional sidecar metadata file with the
// individual flags; a set flag wins over the sidecar field.
func paperMetaFromFlags(cmd *cobra.Command) (types.PaperMeta, error) {
	var paper types.PaperMeta

	if metaPath, _ := cmd.Flags().GetString("paper-meta"); metaPath != "" {
		data, err := os.ReadFile(metaPath)
		if err != nil {
			return paper, fmt.Errorf("reading paper metadata %s: %w", metaPath, err)
		}
		if err := yaml.Unmarshal(data, &paper); err != nil {
			return paper, fmt.Errorf("parsing paper metadata %s: %w", metaPath, err)
		}
	}

	if cmd.Flags().Changed("doi") {
		v, _ := cmd.Flags().GetString("doi")
		paper.DOI = &v
	}
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		paper.Title = &v
	}
	if cmd.Flags().Changed("year") {
		v, _ := cmd.Flags().GetInt("year")
		paper.Year = &v
	}
	if cmd.Flags().Changed("venue") {
		v, _ := cmd.Flags().GetString("venue")
		paper.Venue = &v
	}
	if cmd.Flags().Changed("table-id") {
		v, _ := cmd.Flags().GetString("table-id")
		paper.TableID = &v
	}

	return paper, nil
}

func registerExtractFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "path to a raw table block")
	cmd.Flags().String("output", "-", "JSONL output path (default stdout)")
	cmd.Flags().String("paper-meta", "", "YAML sidecar with paper metadata")
	cmd.Flags().String("doi", "", "paper DOI")
	cmd.Flags().String("title", "", "paper title")
	cmd.Flags().Int("year", 0, "publication year")
	cmd.Flags().String("venue", "", "publication venue")
	cmd.Flags().String("table-id", "", "table identifier (default: input file name)")
}

func init() {
	registerExtractFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}
