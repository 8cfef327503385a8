package extraction

import (
	"fmt"
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// DefaultDenylist returns the substrings that mark an email as noise: placeholder domains,
// role mailboxes that never reach the business, social and CDN hosts, and asset-name artifacts.
func DefaultDenylist() []string {
	return []string{
		"example.com", "example.org", "test.com", "localhost",
		"noreply@", "no-reply@", "donotreply@",
		"@2x", "@3x",
		"sentry.io", "gstatic.com", "googleapis.com", "google.com",
		"facebook.com", "twitter.com", "instagram.com", "linkedin.com", "youtube.com", "youtu.be",
		"bit.ly", "tinyurl.com", "goo.gl", "ow.ly", "short.link",
		"placeholder", "dummy", "fake", "invalid",
		"admin@", "webmaster@", "postmaster@", "hostmaster@", "abuse@",
		"security@", "privacy@", "legal@", "dmca@", "copyright@",
	}
}

// Denylist matches lowercased candidates against a fixed set of substrings in a single pass.
type Denylist struct {
	matcher  *goahocorasick.Machine
	patterns []string
}

// NewDenylist builds the automaton for the given patterns. A nil slice selects DefaultDenylist;
// an empty slice yields a denylist that matches nothing.
func NewDenylist(patterns []string) (*Denylist, error) {
	if patterns == nil {
		patterns = DefaultDenylist()
	}

	normalized := lo.Uniq(lo.FilterMap(patterns, func(p string, _ int) (string, bool) {
		p = strings.ToLower(strings.TrimSpace(p))
		return p, p != ""
	}))
	sort.Strings(normalized)

	if len(normalized) == 0 {
		return &Denylist{}, nil
	}

	dict := make([][]rune, len(normalized))
	for i, p := range normalized {
		dict[i] = []rune(p)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(dict); err != nil {
		return nil, fmt.Errorf("failed to build denylist matcher: %w", err)
	}
	return &Denylist{matcher: m, patterns: normalized}, nil
}

// Matches reports whether the lowercased candidate contains any denylisted substring.
func (d *Denylist) Matches(candidate string) bool {
	if d == nil || d.matcher == nil || candidate == "" {
		return false
	}
	terms := d.matcher.MultiPatternSearch([]rune(strings.ToLower(candidate)), true)
	return len(terms) > 0
}

// Patterns returns the normalized patterns in sorted order.
func (d *Denylist) Patterns() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.patterns...)
}
