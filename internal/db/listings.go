package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AnshKr2004/google-map-automation/internal/types"
)

const listingColumns = `id, name, address, phone, additional_phones, website, email,
	additional_emails, social_media, additional_contacts, rating, scraped_at`

// AddListing inserts a listing. It returns false when a listing with the same
// name and address already exists.
func (db *DB) AddListing(ctx context.Context, l *types.Listing) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO listings (`+listingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (name, address) DO NOTHING`,
		l.ID, l.Name, l.Address, l.Phone, l.AdditionalPhones, l.Website, l.Email,
		l.AdditionalEmails, l.SocialMedia, l.AdditionalContacts, l.Rating, l.ScrapedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add listing: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// HasListing reports whether a listing with this name and address is stored.
func (db *DB) HasListing(ctx context.Context, name, address string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM listings WHERE name = $1 AND address = $2)`,
		name, address,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check listing: %w", err)
	}
	return exists, nil
}

// ListListings returns listings in insertion order.
func (db *DB) ListListings(ctx context.Context) ([]types.Listing, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	listings := []types.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

func scanListing(row pgx.Row) (types.Listing, error) {
	var l types.Listing
	err := row.Scan(&l.ID, &l.Name, &l.Address, &l.Phone, &l.AdditionalPhones, &l.Website, &l.Email,
		&l.AdditionalEmails, &l.SocialMedia, &l.AdditionalContacts, &l.Rating, &l.ScrapedAt)
	return l, err
}

// ClearListings deletes every stored listing.
func (db *DB) ClearListings(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM listings`); err != nil {
		return fmt.Errorf("failed to clear listings: %w", err)
	}
	return nil
}
