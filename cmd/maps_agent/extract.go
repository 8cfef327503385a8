package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnshKr2004/google-map-automation/internal/extraction"
	"github.com/AnshKr2004/google-map-automation/internal/observability"
	"github.com/AnshKr2004/google-map-automation/internal/ranking"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract and rank emails from saved page content",
	Long:  "Read HTML or text from a file (or stdin with --in -) and print the valid, relevance-ranked emails it contains.",
	RunE:  runExtract,
}

var (
	extractInput string
	extractName  string
)

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "in", "i", "-", "Path to page content, or - for stdin")
	extractCmd.Flags().StringVarP(&extractName, "name", "n", "", "Business name used for ranking")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	var content []byte
	if extractInput == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(extractInput)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	denylist, err := extraction.NewDenylist(cfg.Denylist)
	if err != nil {
		return err
	}
	extractor, err := extraction.NewExtractor(denylist, ranking.NewRanker(cfg.BusinessKeywords))
	if err != nil {
		return err
	}

	emails := extractor.Extract(string(content), extractName)
	if cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintCandidates(emails)
		return nil
	}
	for _, e := range emails {
		fmt.Fprintln(cmd.OutOrStdout(), e) //nolint:errcheck
	}
	return nil
}
