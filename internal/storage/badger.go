// Package storage keeps listings and settings in an embedded Badger database for local runs.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/AnshKr2004/google-map-automation/internal/types"
)

const (
	listingPrefix = "listing/"
	indexPrefix   = "listing-idx/"
	settingsKey   = "settings"
	sequenceKey   = "seq/listing"
	// dropPrefix covers both listing records and their identity index.
	dropPrefix = "listing"
)

// Store is a Badger-backed listing and settings store.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens (or creates) a store at path. An empty path opens an in-memory store.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open Badger database.
func New(db *badger.DB) (*Store, error) {
	seq, err := db.GetSequence([]byte(sequenceKey), 100)
	if err != nil {
		return nil, fmt.Errorf("failed to open listing sequence: %w", err)
	}
	return &Store{db: db, seq: seq}, nil
}

// Close releases the sequence lease and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		_ = s.db.Close()
		return err
	}
	return s.db.Close()
}

func indexKey(name, address string) []byte {
	return []byte(indexPrefix + name + "\x00" + address)
}

// AddListing stores the listing unless one with the same name and address exists.
func (s *Store) AddListing(_ context.Context, listing *types.Listing) (bool, error) {
	value, err := json.Marshal(listing)
	if err != nil {
		return false, fmt.Errorf("failed to encode listing: %w", err)
	}

	added := false
	err = s.db.Update(func(txn *badger.Txn) error {
		idx := indexKey(listing.Name, listing.Address)
		if _, err := txn.Get(idx); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		n, err := s.seq.Next()
		if err != nil {
			return err
		}
		key := []byte(fmt.Sprintf("%s%020d", listingPrefix, n))
		if err := txn.Set(key, value); err != nil {
			return err
		}
		if err := txn.Set(idx, key); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to add listing: %w", err)
	}
	return added, nil
}

// HasListing reports whether a listing with this name and address is stored.
func (s *Store) HasListing(_ context.Context, name, address string) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(indexKey(name, address))
		switch {
		case err == nil:
			found = true
			return nil
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		default:
			return err
		}
	})
	return found, err
}

// ListListings returns listings in insertion order.
func (s *Store) ListListings(_ context.Context) ([]types.Listing, error) {
	listings := []types.Listing{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(listingPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var l types.Listing
				if err := json.Unmarshal(val, &l); err != nil {
					return fmt.Errorf("failed to decode listing %s: %w", it.Item().Key(), err)
				}
				listings = append(listings, l)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// ClearListings removes every listing and its index entry.
func (s *Store) ClearListings(_ context.Context) error {
	if err := s.db.DropPrefix([]byte(dropPrefix)); err != nil {
		return fmt.Errorf("failed to clear listings: %w", err)
	}
	return nil
}

// GetSettings returns stored settings, or defaults when none were saved.
func (s *Store) GetSettings(_ context.Context) (types.Settings, error) {
	settings := types.DefaultSettings()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(settingsKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &settings)
		})
	})
	if err != nil {
		return types.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// SaveSettings replaces the stored settings.
func (s *Store) SaveSettings(_ context.Context, settings types.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	value, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(settingsKey), value)
	})
}
