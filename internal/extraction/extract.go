// Package extraction finds email addresses in fetched page content and filters out noise.
package extraction

import (
	"regexp"
	"strings"

	"github.com/AnshKr2004/google-map-automation/internal/ranking"
)

const emailPattern = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`

var (
	looseEmailRe    = regexp.MustCompile(emailPattern)
	anchoredEmailRe = regexp.MustCompile(`^` + emailPattern + `$`)
)

// Extractor scans text for email candidates, removes denylisted ones and orders the rest by relevance.
type Extractor struct {
	denylist *Denylist
	ranker   *ranking.Ranker
}

// NewExtractor creates an Extractor. Nil arguments select the default denylist and ranker.
func NewExtractor(denylist *Denylist, ranker *ranking.Ranker) (*Extractor, error) {
	if denylist == nil {
		d, err := NewDenylist(nil)
		if err != nil {
			return nil, err
		}
		denylist = d
	}
	if ranker == nil {
		ranker = ranking.NewRanker(nil)
	}
	return &Extractor{denylist: denylist, ranker: ranker}, nil
}

// Extract returns the emails found in content, business-relevant first.
// Empty content yields an empty slice.
func (e *Extractor) Extract(content, businessName string) []string {
	return e.ranker.Rank(e.Candidates(content), businessName)
}

// Candidates returns the deduplicated, validated and denylist-filtered emails in first-seen order
// without ranking them.
func (e *Extractor) Candidates(content string) []string {
	if strings.TrimSpace(content) == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, match := range looseEmailRe.FindAllString(content, -1) {
		key := strings.ToLower(match)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if !IsValidEmail(match) {
			continue
		}
		if e.denylist.Matches(match) {
			continue
		}
		out = append(out, match)
	}
	return out
}

// IsValidEmail reports whether s is exactly one email address with no surrounding characters.
func IsValidEmail(s string) bool {
	return anchoredEmailRe.MatchString(s)
}
