// Package parsing turns untrusted model replies into contact data.
// A reply is decoded as JSON when possible and mined with regular expressions otherwise.
package parsing

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/AnshKr2004/google-map-automation/internal/llm"
	"github.com/AnshKr2004/google-map-automation/internal/schemas"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// HeuristicNote is the reasoning attached to contacts mined from free text.
const HeuristicNote = "extracted from unstructured response"

// minPhoneDigits is the number of digits a phone needs to survive the post-filter.
const minPhoneDigits = 10

var (
	looseEmailRe   = regexp.MustCompile(`([a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+)`)
	loosePhoneRe   = regexp.MustCompile(`(\+?[\d\s\-\(\)]{10,})`)
	emailsArrayRe  = regexp.MustCompile(`"emails":\s*\[(.*?)\]`)
	phonesArrayRe  = regexp.MustCompile(`"phones":\s*\[(.*?)\]`)
	quotedStringRe = regexp.MustCompile(`"([^"]+)"`)
)

// Outcome is the result of parsing a model reply. It is either a StructuredParse or a HeuristicParse.
type Outcome interface {
	// Contacts returns the post-filtered contact data
	Contacts() types.ContactAnalysis
	// Structured reports whether the reply was valid JSON of the requested shape
	Structured() bool
}

// StructuredParse holds contacts decoded from a JSON reply. Confidence and reasoning are the model's own.
type StructuredParse struct {
	Data types.ContactAnalysis
}

// Contacts implements Outcome.
func (p StructuredParse) Contacts() types.ContactAnalysis { return p.Data }

// Structured implements Outcome.
func (p StructuredParse) Structured() bool { return true }

// HeuristicParse holds contacts mined from a reply that was not valid JSON.
type HeuristicParse struct {
	Data types.ContactAnalysis
	Note string
	// Cause is why the structured decode failed.
	Cause error
}

// Contacts implements Outcome.
func (p HeuristicParse) Contacts() types.ContactAnalysis { return p.Data }

// Structured implements Outcome.
func (p HeuristicParse) Structured() bool { return false }

// ParseWebsiteResponse parses a reply to the website-analysis prompt.
func ParseWebsiteResponse(content string) Outcome {
	return parse(content, schemas.ValidateWebsiteAnalysis)
}

// ParseContactResponse parses a reply to the contact-analysis prompt.
func ParseContactResponse(content string) Outcome {
	return parse(content, schemas.ValidateContactAnalysis)
}

func parse(content string, validate func(string) error) Outcome {
	data, err := decode(llm.StripCodeFences(content), validate)
	if err != nil {
		return HeuristicParse{
			Data:  filterContacts(mine(content)),
			Note:  HeuristicNote,
			Cause: err,
		}
	}
	return StructuredParse{Data: filterContacts(data)}
}

func decode(cleaned string, validate func(string) error) (types.ContactAnalysis, error) {
	var data types.ContactAnalysis
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return data, &ParseError{Stage: StageJSON, Message: "not valid JSON", Cause: err}
	}
	if err := validate(cleaned); err != nil {
		return data, &ParseError{Stage: StageSchema, Message: "does not match the requested shape", Cause: err}
	}
	return data, nil
}

// mine extracts email- and phone-shaped substrings from raw text and merges the entries of
// any quoted "emails" or "phones" array literal found in it.
func mine(content string) types.ContactAnalysis {
	emails := looseEmailRe.FindAllString(content, -1)
	phones := loosePhoneRe.FindAllString(content, -1)

	emails = append(emails, quotedEntries(emailsArrayRe, content)...)
	phones = append(phones, quotedEntries(phonesArrayRe, content)...)

	return types.ContactAnalysis{
		Emails:             lo.Uniq(emails),
		Phones:             lo.Uniq(lo.Map(phones, func(p string, _ int) string { return strings.TrimSpace(p) })),
		SocialMedia:        []string{},
		AdditionalContacts: []string{},
		Confidence:         types.ConfidenceLow,
		Reasoning:          HeuristicNote,
		Suggestions:        []string{},
	}
}

func quotedEntries(arrayRe *regexp.Regexp, content string) []string {
	match := arrayRe.FindStringSubmatch(content)
	if match == nil {
		return nil
	}
	var out []string
	for _, q := range quotedStringRe.FindAllStringSubmatch(match[1], -1) {
		out = append(out, q[1])
	}
	return out
}

// filterContacts drops emails that lack an @ or a dot or are too short, and phones with
// fewer than ten digits. Nil slices in structured replies stay nil.
func filterContacts(data types.ContactAnalysis) types.ContactAnalysis {
	if data.Emails != nil {
		data.Emails = lo.Filter(data.Emails, func(e string, _ int) bool {
			return strings.Contains(e, "@") && strings.Contains(e, ".") && len(e) > 5
		})
	}
	if data.Phones != nil {
		data.Phones = lo.Filter(data.Phones, func(p string, _ int) bool {
			return DigitCount(p) >= minPhoneDigits
		})
	}
	return data
}

// DigitCount returns the number of ASCII digits in s.
func DigitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
