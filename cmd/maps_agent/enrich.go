package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/AnshKr2004/google-map-automation/internal/observability"
	"github.com/AnshKr2004/google-map-automation/internal/pipeline"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Find contact emails for a business website",
	Long: "Fetch a business website directly or through the relay chain, extract and rank the emails it " +
		"contains, and ask the model when the page yields nothing.",
	RunE: runEnrich,
}

var (
	enrichURL     string
	enrichName    string
	enrichNoModel bool
	enrichJSON    bool
)

func init() {
	enrichCmd.Flags().StringVarP(&enrichURL, "url", "u", "", "Business website URL (required)")
	enrichCmd.Flags().StringVarP(&enrichName, "name", "n", "", "Business name, used for ranking and model prompts")
	enrichCmd.Flags().BoolVar(&enrichNoModel, "no-model", false, "Disable model inference")
	enrichCmd.Flags().BoolVar(&enrichJSON, "json", false, "Print the result as JSON")
	_ = enrichCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := newComponents(ctx, cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	var onProgress pipeline.ProgressCallback
	if cfg.Verbose {
		onProgress = func(e pipeline.ProgressEvent) {
			log.Printf("[ENRICH] %s %s", e.State, e.Message)
		}
	}

	result := c.enricher(cfg.ModelEnabled() && !enrichNoModel, onProgress).Enrich(ctx, enrichURL, enrichName)

	out := cmd.OutOrStdout()
	if enrichJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	observability.NewPrinter(out).PrintEnrichment(enrichURL, result)
	if !result.Success && result.Error != "" {
		return fmt.Errorf("enrichment failed: %s", result.Error)
	}
	return nil
}
