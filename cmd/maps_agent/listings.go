package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/AnshKr2004/google-map-automation/internal/observability"
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Show or clear stored listings",
	RunE:  runListings,
}

var (
	listingsClear bool
	listingsJSON  bool
)

func init() {
	listingsCmd.Flags().BoolVar(&listingsClear, "clear", false, "Delete every stored listing")
	listingsCmd.Flags().BoolVar(&listingsJSON, "json", false, "Print listings as JSON")

	rootCmd.AddCommand(listingsCmd)
}

func runListings(cmd *cobra.Command, _ []string) error {
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

	if listingsClear {
		return store.ClearListings(ctx)
	}

	listings, err := store.ListListings(ctx)
	if err != nil {
		return err
	}

	if listingsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintListings(listings)
	return nil
}
