package fetch

import (
	"context"
	"log"
)

// Renderer returns the rendered HTML of a page.
type Renderer func(ctx context.Context, url string) (string, error)

// Direct fetches target without a relay. When render is non-nil and the page yields too little
// visible text, the page is rendered again with it and the rendered HTML replaces the body.
// A failed render keeps the plain HTTP body.
func Direct(ctx context.Context, target string, opts *Options, render Renderer, verbose bool) (*Result, error) {
	result, err := URL(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	if render == nil {
		return result, nil
	}

	text, err := ExtractMainText(result.Body, DefaultTextSelectors())
	if err != nil || !ShouldUseBrowser(text) {
		return result, nil
	}

	if verbose {
		log.Printf("[FETCH] %s yielded %d chars of text, rendering in browser", target, len(text))
	}
	html, err := render(ctx, target)
	if err != nil {
		if verbose {
			log.Printf("[FETCH] Browser render failed for %s: %v", target, err)
		}
		return result, nil
	}
	if html != "" {
		result.Body = html
		result.Rendered = true
	}
	return result, nil
}
