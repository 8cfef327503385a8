// Package pipeline orchestrates one enrichment call: fetch the business website, extract and rank
// emails, and fall back to model inference when the page yields nothing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/AnshKr2004/google-map-automation/internal/fetch"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// NoEmailsInContent is the message returned when nothing was found and inference is unavailable.
const NoEmailsInContent = "No emails found in website content"

// State is a step of one enrichment call.
type State string

// States in the order an enrichment call can visit them.
const (
	StateIdle                 State = "idle"
	StateAttemptingDirect     State = "attempting_direct"
	StateAttemptingProxyChain State = "attempting_proxy_chain"
	StateExtracting           State = "extracting"
	StateAttemptingModel      State = "attempting_model"
	StateDone                 State = "done"
)

// ProgressEvent reports a state transition.
type ProgressEvent struct {
	State   State  `json:"state"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// ProgressCallback is called on every state transition
type ProgressCallback func(event ProgressEvent)

// ChainFetcher fetches a page through relays.
type ChainFetcher interface {
	Fetch(ctx context.Context, target string) (*fetch.ChainResult, error)
}

// EmailExtractor finds and ranks emails in page content.
type EmailExtractor interface {
	Extract(content, businessName string) []string
}

// EmailInferrer asks a model for likely emails.
type EmailInferrer interface {
	Enabled() bool
	InferEmails(ctx context.Context, query types.BusinessQuery) types.EnrichmentResult
}

// Options configures an Enricher.
type Options struct {
	// DirectFetch tries a plain GET before the relays. Browsers block it cross-origin,
	// a server process does not.
	DirectFetch bool
	// UseBrowser re-renders directly fetched pages with too little text in headless Chrome.
	UseBrowser bool
	// UseModel enables model inference when fetching or extraction finds nothing.
	UseModel     bool
	FetchOptions *fetch.Options
	// Renderer overrides the headless browser used when UseBrowser is set.
	Renderer   fetch.Renderer
	Verbose    bool
	OnProgress ProgressCallback
}

// Enricher runs enrichment calls. It holds no per-call state and is safe for sequential reuse.
type Enricher struct {
	chain     ChainFetcher
	extractor EmailExtractor
	inferrer  EmailInferrer
	opts      Options
}

// NewEnricher creates an Enricher. inferrer may be nil.
func NewEnricher(chain ChainFetcher, extractor EmailExtractor, inferrer EmailInferrer, opts Options) *Enricher {
	if opts.UseBrowser && opts.Renderer == nil {
		opts.Renderer = fetch.Browser{Verbose: opts.Verbose}.Render
	}
	return &Enricher{chain: chain, extractor: extractor, inferrer: inferrer, opts: opts}
}

// WithModel returns a copy of the Enricher with model inference switched on or off.
func (e *Enricher) WithModel(enabled bool) *Enricher {
	cp := *e
	cp.opts.UseModel = enabled
	return &cp
}

// Enrich finds emails for the business at url. It never panics and never returns an error:
// every failure, including a malformed url, becomes a failure envelope. An empty url skips
// fetching and goes straight to model inference.
func (e *Enricher) Enrich(ctx context.Context, url, businessName string) (result types.EnrichmentResult) {
	url = strings.TrimSpace(url)
	businessName = strings.TrimSpace(businessName)

	defer func() {
		if r := recover(); r != nil {
			result = types.Failed(fmt.Errorf("unexpected error: %v", r))
		}
		e.emit(StateDone, url, result.Message+result.Error)
	}()

	e.emit(StateIdle, url, "")

	if url != "" {
		if _, err := fetch.ParseTarget(url); err != nil {
			return types.Failed(err)
		}

		content, provenance, relay, err := e.fetchContent(ctx, url)
		switch {
		case err != nil:
			if e.opts.Verbose {
				log.Printf("[ENRICH] Fetch failed for %s: %v", url, err)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return types.Failed(err)
			}
		case strings.TrimSpace(content) != "":
			e.emit(StateExtracting, url, "")
			emails := e.extractor.Extract(content, businessName)
			if len(emails) > 0 {
				if e.opts.Verbose {
					log.Printf("[ENRICH] Found %d email(s) for %s via %s", len(emails), url, provenance)
				}
				return types.EnrichmentResult{
					Success:    true,
					Emails:     emails,
					Method:     types.MethodWebsiteScraping,
					Provenance: provenance,
					Proxy:      relay,
				}
			}
			if e.opts.Verbose {
				log.Printf("[ENRICH] No emails in content from %s", url)
			}
		}
	}

	if !e.opts.UseModel || e.inferrer == nil || !e.inferrer.Enabled() {
		return types.NotFound(NoEmailsInContent)
	}

	e.emit(StateAttemptingModel, url, "")
	return e.inferrer.InferEmails(ctx, types.BusinessQuery{Name: businessName, Website: url})
}

// fetchContent returns the page body and where it came from.
func (e *Enricher) fetchContent(ctx context.Context, url string) (string, types.Provenance, string, error) {
	if e.opts.DirectFetch {
		e.emit(StateAttemptingDirect, url, "")
		result, err := fetch.Direct(ctx, url, e.opts.FetchOptions, e.opts.Renderer, e.opts.Verbose)
		if err == nil && strings.TrimSpace(result.Body) != "" {
			return result.Body, types.ProvenanceDirectFetch, "", nil
		}
		if e.opts.Verbose && err != nil {
			log.Printf("[ENRICH] Direct fetch failed for %s: %v", url, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "", "", ctxErr
		}
	}

	if e.chain == nil {
		return "", "", "", errors.New("no relay chain configured")
	}

	e.emit(StateAttemptingProxyChain, url, "")
	result, err := e.chain.Fetch(ctx, url)
	if err != nil {
		return "", "", "", err
	}
	return result.Content, types.ProvenanceProxyRelay, result.Relay, nil
}

func (e *Enricher) emit(state State, url, message string) {
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(ProgressEvent{State: state, URL: url, Message: message})
	}
}
