// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the recipe-engine CLI.
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the recipe-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "recipe-engine",
	Short: "Structured extraction of semiconductor growth recipes",
	Long: `recipe-engine converts semi-structured process-recipe tables from
papers into normalized per-condition records with provenance and
quality metadata, one JSON object per experimental condition.

Each stage is a subcommand: extract parses table blocks into JSONL
condition records; records indexes the emitted records in a local
SQLite database for querying and export.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./recipe-engine.yaml or ~/.config/recipe-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("recipe-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "recipe-engine"))
		}
	}

	viper.SetEnvPrefix("RECIPE_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("extraction.ambient_pressure", string(types.AmbientAssume760))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// extractionConfig builds the extraction settings from viper state.
func extractionConfig() types.ExtractionConfig {
	cfg := types.ExtractionConfig{
		AmbientPressure: types.AmbientPressurePolicy(viper.GetString("extraction.ambient_pressure")),
	}
	if v := viper.GetStringMap("extraction.scoring.key_field_penalties"); len(v) > 0 {
		cfg.Scoring.KeyFieldPenalties = floatMap(v)
	}
	if v := viper.GetStringMap("extraction.scoring.flag_penalties"); len(v) > 0 {
		cfg.Scoring.FlagPenalties = floatMap(v)
	}
	return cfg
}

func floatMap(in map[string]any) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		switch n := v.(type) {
		case float64:
			out[k] = n
		case int:
			out[k] = float64(n)
		}
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
