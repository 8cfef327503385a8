// Package ranking orders candidate contact emails by how likely they are to reach the business itself.
package ranking

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// minNameWordLength is the length a business name word must exceed to count as a domain match.
const minNameWordLength = 3

// DefaultBusinessKeywords returns the local-part keywords that mark a business-role mailbox.
func DefaultBusinessKeywords() []string {
	return []string{
		"info", "contact", "sales", "support", "admin", "office", "business",
		"service", "help", "inquiry", "marketing", "team", "reception",
		"booking", "reservations", "orders", "customerservice", "hello",
		"welcome", "general", "mail", "enquiry", "enquiries", "shop",
		"store", "company", "corp", "inc", "llc", "group", "services",
		"solutions", "consulting", "management", "director", "manager",
		"owner", "ceo", "president", "founder", "principal", "partner",
	}
}

// Ranker partitions candidates into business-relevant and other emails.
type Ranker struct {
	keywords []string
}

// NewRanker creates a Ranker using the given keywords. A nil slice selects DefaultBusinessKeywords.
func NewRanker(keywords []string) *Ranker {
	if keywords == nil {
		keywords = DefaultBusinessKeywords()
	}
	normalized := lo.Uniq(lo.FilterMap(keywords, func(k string, _ int) (string, bool) {
		k = strings.ToLower(strings.TrimSpace(k))
		return k, k != ""
	}))
	return &Ranker{keywords: normalized}
}

// Rank returns candidates with business-relevant emails first. Relative order inside each tier is
// preserved and no candidate is dropped. An empty businessName disables the domain match.
func (r *Ranker) Rank(candidates []string, businessName string) []string {
	nameWords := significantWords(businessName)

	business := make([]string, 0, len(candidates))
	other := make([]string, 0, len(candidates))
	for _, email := range candidates {
		if r.IsBusinessRelevant(email, nameWords) {
			business = append(business, email)
		} else {
			other = append(other, email)
		}
	}
	return append(business, other...)
}

// IsBusinessRelevant reports whether an email belongs in the first tier.
func (r *Ranker) IsBusinessRelevant(email string, nameWords []string) bool {
	lower := strings.ToLower(email)
	local, domain, _ := strings.Cut(lower, "@")

	hasKeyword := lo.SomeBy(r.keywords, func(k string) bool {
		return strings.Contains(local, k)
	})
	if hasKeyword {
		return true
	}
	return lo.SomeBy(nameWords, func(w string) bool {
		return strings.Contains(domain, w)
	})
}

// significantWords lowercases the business name and keeps whitespace-delimited words
// longer than minNameWordLength characters.
func significantWords(businessName string) []string {
	return lo.Filter(strings.Fields(strings.ToLower(businessName)), func(w string, _ int) bool {
		return utf8.RuneCountInString(w) > minNameWordLength
	})
}
