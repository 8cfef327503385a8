package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
)

// Style is how a relay expects the target URL to be embedded in its own URL.
type Style string

const (
	// StyleQuery embeds the URL-encoded target as the url query parameter.
	StyleQuery Style = "query"
	// StylePath appends the raw target to the relay base path.
	StylePath Style = "path"
)

// Relay is a third-party endpoint that fetches a target URL on the caller's behalf.
type Relay struct {
	Name  string `json:"name"`
	Base  string `json:"base"`
	Style Style  `json:"style"`
}

// DefaultRelays returns the public relays in priority order.
func DefaultRelays() []Relay {
	return []Relay{
		{Name: "allorigins", Base: "https://api.allorigins.win/raw", Style: StyleQuery},
		{Name: "cors-anywhere", Base: "https://cors-anywhere.herokuapp.com", Style: StylePath},
		{Name: "thingproxy", Base: "https://thingproxy.freeboard.io/fetch", Style: StylePath},
	}
}

// Wrap returns the relay URL that fetches target.
func (r Relay) Wrap(target string) (string, error) {
	switch r.Style {
	case StyleQuery:
		sep := "?"
		if strings.Contains(r.Base, "?") {
			sep = "&"
		}
		return r.Base + sep + "url=" + url.QueryEscape(target), nil
	case StylePath:
		return strings.TrimRight(r.Base, "/") + "/" + target, nil
	default:
		return "", fmt.Errorf("relay %s: unknown style %q", r.Name, r.Style)
	}
}

// Validate checks that the relay has a name, an absolute base URL and a known style.
func (r Relay) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("relay name is required")
	}
	if _, err := ParseTarget(r.Base); err != nil {
		return fmt.Errorf("relay %s: %w", r.Name, err)
	}
	if r.Style != StyleQuery && r.Style != StylePath {
		return fmt.Errorf("relay %s: unknown style %q", r.Name, r.Style)
	}
	return nil
}

// AttemptError records why one relay failed.
type AttemptError struct {
	Relay string
	Err   error
}

func (e AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Relay, e.Err)
}

// ExhaustedError is returned when every relay failed.
type ExhaustedError struct {
	URL      string
	Attempts []AttemptError
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("all relays failed for %s: no relays configured", e.URL)
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return fmt.Sprintf("all relays failed for %s: %s", e.URL, strings.Join(parts, "; "))
}

// ChainResult is the body returned by the first relay that succeeded.
type ChainResult struct {
	Content    string
	Relay      string
	StatusCode int
	// Attempts holds failures of relays tried before the winner.
	Attempts []AttemptError
}

// Chain tries relays in order and stops at the first 2xx response.
type Chain struct {
	relays  []Relay
	opts    *Options
	verbose bool
}

// NewChain creates a Chain. A nil relays slice selects DefaultRelays; nil opts selects DefaultOptions.
func NewChain(relays []Relay, opts *Options, verbose bool) *Chain {
	if relays == nil {
		relays = DefaultRelays()
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Chain{relays: relays, opts: opts, verbose: verbose}
}

// Relays returns the configured relays in priority order.
func (c *Chain) Relays() []Relay {
	return append([]Relay(nil), c.relays...)
}

// Fetch retrieves target through the relays. Each relay gets exactly one attempt bounded by
// the per-attempt timeout. The context is checked between attempts; a cancelled context stops
// the chain and its error is returned as is.
func (c *Chain) Fetch(ctx context.Context, target string) (*ChainResult, error) {
	if _, err := ParseTarget(target); err != nil {
		return nil, err
	}

	var attempts []AttemptError
	for _, relay := range c.relays {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.attempt(ctx, relay, target)
		if err != nil {
			if c.verbose {
				log.Printf("[RELAY] %s failed for %s: %v", relay.Name, target, err)
			}
			attempts = append(attempts, AttemptError{Relay: relay.Name, Err: err})
			continue
		}

		if c.verbose {
			log.Printf("[RELAY] %s succeeded for %s (%d bytes)", relay.Name, target, len(result.Body))
		}
		return &ChainResult{
			Content:    result.Body,
			Relay:      relay.Name,
			StatusCode: result.StatusCode,
			Attempts:   attempts,
		}, nil
	}

	return nil, &ExhaustedError{URL: target, Attempts: attempts}
}

func (c *Chain) attempt(ctx context.Context, relay Relay, target string) (*Result, error) {
	wrapped, err := relay.Wrap(target)
	if err != nil {
		return nil, err
	}

	timeout := c.opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return URL(attemptCtx, wrapped, c.opts)
}
