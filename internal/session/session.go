// Package session tracks the single active scraping session and attaches enrichment results
// to the listings it collects.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/AnshKr2004/google-map-automation/internal/fetch"
	"github.com/AnshKr2004/google-map-automation/internal/inference"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// Sentinel errors for session lifecycle violations.
var (
	ErrSessionActive   = errors.New("a scraping session is already active")
	ErrNoActiveSession = errors.New("no active scraping session")
	ErrSessionStopped  = errors.New("scraping session was stopped")
	ErrNotMapsPage     = errors.New("scraping must start from a Google Maps page")
)

// Enricher finds emails for one business website.
type Enricher interface {
	Enrich(ctx context.Context, url, businessName string) types.EnrichmentResult
}

// ContactAnalyzer asks the model for phones, social profiles and other contacts of a business.
type ContactAnalyzer interface {
	AnalyzeContacts(ctx context.Context, query types.BusinessQuery) (*inference.Analysis, error)
}

// EnricherFactory returns the Enricher to use for a session, with model inference on or off.
type EnricherFactory func(useModel bool) Enricher

// Stats summarizes a session.
type Stats struct {
	ID        uuid.UUID      `json:"id"`
	SourceURL string         `json:"source_url"`
	StartedAt time.Time      `json:"started_at"`
	Settings  types.Settings `json:"settings"`
	Listings  int            `json:"listings"`
	WithEmail int            `json:"with_email"`
	Active    bool           `json:"active"`
}

// Session is one scrape run. Its context is cancelled when the session stops.
type Session struct {
	id        uuid.UUID
	sourceURL string
	startedAt time.Time
	settings  types.Settings
	enricher  Enricher
	limiter   *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	listings  int
	withEmail int
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Context returns the session context.
func (s *Session) Context() context.Context { return s.ctx }

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		ID:        s.id,
		SourceURL: s.sourceURL,
		StartedAt: s.startedAt,
		Settings:  s.settings,
		Listings:  s.listings,
		WithEmail: s.withEmail,
		Active:    s.ctx.Err() == nil,
	}
}

func (s *Session) record(listing *types.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings++
	if listing.HasEmail() {
		s.withEmail++
	}
}

// Manager owns at most one active Session per process.
type Manager struct {
	store       Store
	newEnricher EnricherFactory
	analyzer    ContactAnalyzer
	verbose     bool

	mu     sync.Mutex
	active *Session
}

// NewManager creates a Manager. newEnricher may be nil, in which case listings are stored
// without enrichment.
func NewManager(store Store, newEnricher EnricherFactory, verbose bool) *Manager {
	return &Manager{store: store, newEnricher: newEnricher, verbose: verbose}
}

// WithAnalyzer enables contact analysis of each new listing in sessions whose settings allow
// model use. A nil analyzer disables it.
func (m *Manager) WithAnalyzer(analyzer ContactAnalyzer) *Manager {
	m.analyzer = analyzer
	return m
}

// Start begins a session for the maps page at sourceURL using the stored settings.
// It fails with ErrSessionActive while another session runs.
func (m *Manager) Start(ctx context.Context, sourceURL string) (*Session, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if !fetch.IsMapsURL(sourceURL) {
		return nil, ErrNotMapsPage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, ErrSessionActive
	}

	settings, err := m.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// the session outlives the request that started it
	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Session{
		id:        uuid.New(),
		sourceURL: sourceURL,
		startedAt: time.Now().UTC(),
		settings:  settings,
		limiter:   newLimiter(settings.Delay()),
		ctx:       sessionCtx,
		cancel:    cancel,
	}
	if m.newEnricher != nil {
		s.enricher = m.newEnricher(settings.UseModel)
	}
	m.active = s

	if m.verbose {
		log.Printf("[SESSION] Started %s from %s (delay %s, model %t)", s.id, sourceURL, settings.Delay(), settings.UseModel)
	}
	return s, nil
}

// Stop cancels the active session and returns its final counters.
func (m *Manager) Stop() (Stats, error) {
	m.mu.Lock()
	s := m.active
	m.active = nil
	m.mu.Unlock()

	if s == nil {
		return Stats{}, ErrNoActiveSession
	}
	s.cancel()

	stats := s.Stats()
	if m.verbose {
		log.Printf("[SESSION] Stopped %s: %d listing(s), %d with email", s.id, stats.Listings, stats.WithEmail)
	}
	return stats, nil
}

// Active returns the running session, if any.
func (m *Manager) Active() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != nil
}

// AddListing records a listing scraped by the active session. Duplicates by name and address
// are skipped and reported with added=false. A listing with a website and no email is enriched
// first, and when the session may use the model its contact analysis is merged in. Enrichment
// and analysis failures leave the listing as scraped and are not errors.
func (m *Manager) AddListing(ctx context.Context, listing types.Listing) (bool, types.Listing, error) {
	s, ok := m.Active()
	if !ok {
		return false, listing, ErrNoActiveSession
	}
	if s.ctx.Err() != nil {
		return false, listing, ErrSessionStopped
	}

	listing.Name = strings.TrimSpace(listing.Name)
	listing.Address = strings.TrimSpace(listing.Address)
	if err := listing.Validate(); err != nil {
		return false, listing, fmt.Errorf("invalid listing: %w", err)
	}

	exists, err := m.store.HasListing(ctx, listing.Name, listing.Address)
	if err != nil {
		return false, listing, fmt.Errorf("failed to check listing: %w", err)
	}
	if exists {
		return false, listing, nil
	}

	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	if listing.ScrapedAt.IsZero() {
		listing.ScrapedAt = time.Now().UTC()
	}

	if m.needsEnrichment(s, &listing) || m.analyzes(s) {
		if err := m.enrich(ctx, s, &listing); err != nil {
			return false, listing, err
		}
	}

	added, err := m.store.AddListing(ctx, &listing)
	if err != nil {
		return false, listing, fmt.Errorf("failed to store listing: %w", err)
	}
	if added {
		s.record(&listing)
	}
	return added, listing, nil
}

func (m *Manager) needsEnrichment(s *Session, listing *types.Listing) bool {
	return s.enricher != nil && listing.Website != "" && !listing.HasEmail()
}

func (m *Manager) analyzes(s *Session) bool {
	return m.analyzer != nil && s.settings.UseModel
}

// enrich waits for the session pacing slot, attaches the winning emails, then merges the
// model's contact analysis.
func (m *Manager) enrich(ctx context.Context, s *Session, listing *types.Listing) error {
	waitCtx, cancel := mergeCancel(ctx, s.ctx)
	defer cancel()

	if err := s.limiter.Wait(waitCtx); err != nil {
		if s.ctx.Err() != nil {
			return ErrSessionStopped
		}
		return err
	}

	if m.needsEnrichment(s, listing) {
		result := s.enricher.Enrich(waitCtx, listing.Website, listing.Name)
		if result.Success {
			listing.AttachEmails(result.Emails)
		}
		if m.verbose {
			if result.Success {
				log.Printf("[SESSION] %s: %d email(s) via %s", listing.Name, len(result.Emails), result.Provenance)
			} else {
				log.Printf("[SESSION] %s: no email (%s%s)", listing.Name, result.Message, result.Error)
			}
		}
	}

	if m.analyzes(s) && waitCtx.Err() == nil {
		analysis, err := m.analyzer.AnalyzeContacts(waitCtx, listing.Query())
		if err != nil {
			if m.verbose {
				log.Printf("[SESSION] %s: contact analysis failed: %v", listing.Name, err)
			}
			return nil
		}
		data := analysis.Data()
		listing.AttachAnalysis(&data)
	}
	return nil
}

// newLimiter spaces enrichment calls by delay. The first call is not delayed.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// mergeCancel returns a context derived from ctx that is also cancelled when other is.
func mergeCancel(ctx, other context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(other, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
