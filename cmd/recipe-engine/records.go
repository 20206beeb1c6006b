// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/recipe-engine/internal/records"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage the condition-record index (store, retrieve, export)",
	Long: `Records manages a local SQLite index built from extracted condition
records. Use subcommands to ingest JSONL files, query them, or export.`,
}

// --- store subcommand ---

var recordsStoreCmd = &cobra.Command{
	Use:   "store [files...]",
	Short: "Ingest extracted JSONL files into the record index",
	Long: `Store reads condition-record JSONL files (by default every .jsonl
under records/extracted/), ingests them into a SQLite database with
FTS5 indexing over the descriptive fields, and skips unchanged files
on subsequent runs.`,
	RunE: runRecordsStore,
}

func runRecordsStore(cmd *cobra.Command, args []string) error {
	store, err := records.NewStore(recordsConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), args, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed ingestion", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var recordsRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the record index with full-text search and filters",
	Long: `Retrieve searches the record index using FTS5 full-text search over
substrate and source descriptions, structured filters (paper DOI,
quality flag, minimum confidence), or a combination of both.`,
	RunE: runRecordsRetrieve,
}

func runRecordsRetrieve(cmd *cobra.Command, args []string) error {
	store, err := records.NewStore(recordsConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --doi, --flag, or --min-confidence")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []types.ConditionRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-8s  %-8s  %-8s  %-24s  %s\n",
		"Rank", "Record", "Temp C", "Time min", "Conf", "Substrate", "Flags")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for i, r := range results {
		substrate := ""
		if r.Condition.Substrate != nil {
			substrate = *r.Condition.Substrate
		}
		if len(substrate) > 24 {
			substrate = substrate[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-8s  %-8s  %-8.2f  %-24s  %s\n",
			i+1, r.RecordID,
			formatFloat(r.Condition.TemperatureC),
			formatFloat(r.Condition.GrowthTimeMin),
			r.Quality.Confidence, substrate,
			strings.Join(r.Quality.Flags, ","))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

// --- export subcommand ---

var recordsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the record index to YAML or JSON",
	Long: `Export writes the full record index (or a filtered subset) to
records/index/export.yaml or export.json. Supports the same filter
flags as retrieve for partial exports.`,
	RunE: runRecordsExport,
}

func runRecordsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := records.NewStore(recordsConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to records/index/export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to records/index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func recordsConfig(cmd *cobra.Command) types.RecordStoreConfig {
	recordsDir, _ := cmd.Flags().GetString("records-dir")
	if recordsDir == "" {
		recordsDir = "records"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.RecordStoreConfig{
		RecordsDir: recordsDir,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) records.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	doi, _ := cmd.Flags().GetString("doi")
	flag, _ := cmd.Flags().GetString("flag")
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	limit, _ := cmd.Flags().GetInt("limit")

	return records.QueryOptions{
		Query:         queryText,
		DOI:           doi,
		Flag:          flag,
		MinConfidence: minConfidence,
		MaxResults:    limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	recordsCmd.PersistentFlags().String("records-dir", "records", "base directory for records (contains extracted/, index/)")
	recordsCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Retrieve flags.
	recordsRetrieveCmd.Flags().String("query", "", "full-text search query")
	recordsRetrieveCmd.Flags().String("doi", "", "filter by paper DOI")
	recordsRetrieveCmd.Flags().String("flag", "", "filter by quality flag")
	recordsRetrieveCmd.Flags().Float64("min-confidence", 0, "minimum confidence score")
	recordsRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	recordsRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	recordsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	recordsExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	recordsExportCmd.Flags().String("doi", "", "filter by paper DOI for partial export")
	recordsExportCmd.Flags().String("flag", "", "filter by quality flag for partial export")
	recordsExportCmd.Flags().Float64("min-confidence", 0, "minimum confidence for partial export")
	recordsExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	// Wire subcommands.
	recordsCmd.AddCommand(recordsStoreCmd)
	recordsCmd.AddCommand(recordsRetrieveCmd)
	recordsCmd.AddCommand(recordsExportCmd)

	rootCmd.AddCommand(recordsCmd)
}
