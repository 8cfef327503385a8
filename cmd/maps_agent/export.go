package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnshKr2004/google-map-automation/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored listings as CSV",
	RunE:  runExport,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file (default google-maps-data-YYYY-MM-DD.csv, - for stdout)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	listings, err := store.ListListings(ctx)
	if err != nil {
		return err
	}

	if exportOutput == "-" {
		return export.Write(cmd.OutOrStdout(), listings)
	}

	path := exportOutput
	if path == "" {
		path = export.FileName(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export.Write(f, listings); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d listings to %s\n", len(listings), path) //nolint:errcheck
	return nil
}
