package session

import (
	"context"

	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// Store persists scraped listings and user settings.
type Store interface {
	// AddListing stores the listing unless one with the same name and address exists.
	// It reports whether the listing was added.
	AddListing(ctx context.Context, listing *types.Listing) (bool, error)
	// HasListing reports whether a listing with this name and address is stored.
	HasListing(ctx context.Context, name, address string) (bool, error)
	// ListListings returns listings in insertion order.
	ListListings(ctx context.Context) ([]types.Listing, error)
	// ClearListings removes every listing.
	ClearListings(ctx context.Context) error
	// GetSettings returns stored settings, or defaults when none were saved.
	GetSettings(ctx context.Context) (types.Settings, error)
	// SaveSettings replaces the stored settings.
	SaveSettings(ctx context.Context, settings types.Settings) error
	Close() error
}
