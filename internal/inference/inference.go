// Package inference asks a language model for a business's likely contact details.
package inference

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/samber/lo"

	"github.com/AnshKr2004/google-map-automation/internal/llm"
	"github.com/AnshKr2004/google-map-automation/internal/parsing"
	"github.com/AnshKr2004/google-map-automation/internal/prompts"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// Sampling parameters for both prompt variants.
const (
	Temperature            = 0.3
	TopP                   = 0.9
	WebsiteAnalysisTokens  = 300
	ContactAnalysisTokens  = 800
	WebsiteAnalysisTitle   = "Google Maps Data Scraper - Website Analysis"
	NoEmailsInferredReason = "No emails found through AI analysis"
)

// ErrNoClient is returned when inference is requested without a configured model.
var ErrNoClient = errors.New("model client is not configured")

// Analysis is the outcome of a contact analysis request.
type Analysis struct {
	Outcome parsing.Outcome
	Model   string
	Usage   *types.TokenUsage
}

// Data returns the parsed contact data.
func (a *Analysis) Data() types.ContactAnalysis {
	return a.Outcome.Contacts()
}

// Response converts the analysis to the API envelope.
func (a *Analysis) Response() types.AnalysisResponse {
	data := a.Data()
	return types.AnalysisResponse{
		Success: true,
		Data:    &data,
		Usage:   a.Usage,
		Model:   a.Model,
	}
}

// Inferrer builds prompts, calls the model and parses its reply.
type Inferrer struct {
	client  llm.Client
	verbose bool
}

// NewInferrer creates an Inferrer. A nil client is allowed; every call then fails with ErrNoClient.
func NewInferrer(client llm.Client, verbose bool) *Inferrer {
	return &Inferrer{client: client, verbose: verbose}
}

// Enabled reports whether a model client is configured.
func (i *Inferrer) Enabled() bool {
	return i != nil && i.client != nil
}

// InferEmails asks the model which emails the business's website most likely lists.
// Transport and reply failures become failure envelopes; it never returns an error.
func (i *Inferrer) InferEmails(ctx context.Context, query types.BusinessQuery) types.EnrichmentResult {
	if !i.Enabled() {
		return types.Failed(ErrNoClient)
	}

	prompt, err := prompts.Render(prompts.ContactsFile, prompts.WebsiteAnalysis, map[string]string{
		"URL":          prompts.Or(query.Website, "an unknown website"),
		"BusinessName": query.DisplayName(),
	})
	if err != nil {
		return types.Failed(err)
	}

	resp, err := i.complete(ctx, prompts.WebsiteAnalysisSystem, prompt, WebsiteAnalysisTokens, WebsiteAnalysisTitle)
	if err != nil {
		return types.Failed(err)
	}

	outcome := parsing.ParseWebsiteResponse(resp.Content)
	data := outcome.Contacts()
	if i.verbose && !outcome.Structured() {
		log.Printf("[MODEL] Reply for %q was not valid JSON, used regex fallback", query.DisplayName())
	}

	emails := uniqueFold(data.Emails)
	if len(emails) == 0 {
		return types.NotFound(NoEmailsInferredReason)
	}

	if i.verbose {
		log.Printf("[MODEL] Inferred %d email(s) for %q (confidence: %s)", len(emails), query.DisplayName(), data.Confidence)
	}
	return types.EnrichmentResult{
		Success:    true,
		Emails:     emails,
		Method:     types.MethodModelAnalysis,
		Provenance: types.ProvenanceModelInference,
		Confidence: data.Confidence,
		Reasoning:  data.Reasoning,
	}
}

// AnalyzeContacts asks the model for emails, phones, social profiles, other contacts and
// suggestions. Transport failures are returned as errors; unparseable replies are not.
func (i *Inferrer) AnalyzeContacts(ctx context.Context, query types.BusinessQuery) (*Analysis, error) {
	if !i.Enabled() {
		return nil, ErrNoClient
	}

	prompt, err := prompts.Render(prompts.ContactsFile, prompts.ContactAnalysis, map[string]string{
		"Name":           prompts.Or(query.Name, "Unknown"),
		"Address":        prompts.Or(query.Address, "Unknown"),
		"Phone":          prompts.Or(query.Phone, "Unknown"),
		"Website":        prompts.Or(query.Website, "Unknown"),
		"AdditionalInfo": prompts.Or(query.AdditionalInfo, "None"),
	})
	if err != nil {
		return nil, err
	}

	resp, err := i.complete(ctx, prompts.ContactAnalysisSystem, prompt, ContactAnalysisTokens, "")
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Outcome: parsing.ParseContactResponse(resp.Content),
		Model:   resp.Model,
	}
	if resp.Usage != nil {
		analysis.Usage = &types.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	if i.verbose {
		data := analysis.Data()
		log.Printf("[MODEL] Contact analysis for %q: %d email(s), %d phone(s), structured=%t",
			query.DisplayName(), len(data.Emails), len(data.Phones), analysis.Outcome.Structured())
	}
	return analysis, nil
}

func (i *Inferrer) complete(ctx context.Context, systemKey, prompt string, maxTokens int, title string) (*llm.Response, error) {
	system, err := prompts.Get(prompts.ContactsFile, systemKey)
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: prompt},
		},
		Temperature: Temperature,
		MaxTokens:   maxTokens,
		TopP:        TopP,
		Title:       title,
	})
	if err != nil {
		if i.verbose {
			log.Printf("[MODEL] Request failed: %v", err)
		}
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	return resp, nil
}

// uniqueFold removes case-insensitive duplicates, keeping the first spelling.
func uniqueFold(emails []string) []string {
	return lo.UniqBy(lo.Map(emails, func(e string, _ int) string {
		return strings.TrimSpace(e)
	}), strings.ToLower)
}
