package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnshKr2004/google-map-automation/internal/observability"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask the model for a business's emails, phones and social profiles",
	RunE:  runAnalyze,
}

var (
	analyzeQuery types.BusinessQuery
	analyzeJSON  bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeQuery.Name, "name", "n", "", "Business name")
	analyzeCmd.Flags().StringVarP(&analyzeQuery.Website, "website", "w", "", "Business website")
	analyzeCmd.Flags().StringVar(&analyzeQuery.Address, "address", "", "Business address")
	analyzeCmd.Flags().StringVar(&analyzeQuery.Phone, "phone", "", "Business phone")
	analyzeCmd.Flags().StringVar(&analyzeQuery.AdditionalInfo, "info", "", "Additional context for the model")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the response as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if err := analyzeQuery.Validate(); err != nil {
		return fmt.Errorf("invalid business: %w", err)
	}

	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}
	if !env.HasModelKey() {
		return fmt.Errorf("MODEL_API_KEY environment variable is required")
	}

	ctx := cmd.Context()
	c, err := newComponents(ctx, cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	resp := types.AnalysisResponse{}
	analysis, err := c.inferrer.AnalyzeContacts(ctx, analyzeQuery)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp = analysis.Response()
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(resp); encErr != nil {
			return encErr
		}
	} else {
		observability.NewPrinter(out).PrintContactAnalysis(resp)
	}
	return err
}
