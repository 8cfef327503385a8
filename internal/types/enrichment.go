package types

// Provenance records which pipeline stage produced a result.
type Provenance string

const (
	// ProvenanceDirectFetch means the page was fetched without a relay
	ProvenanceDirectFetch Provenance = "direct-fetch"
	// ProvenanceProxyRelay means the page was fetched through a relay
	ProvenanceProxyRelay Provenance = "proxy-relay"
	// ProvenanceModelInference means the emails were guessed by a language model
	ProvenanceModelInference Provenance = "model-inference"
)

// Method values reported to the extension.
const (
	MethodWebsiteScraping = "website_scraping"
	MethodModelAnalysis   = "grok_api_website_analysis"
)

// Confidence values requested from the model.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// EnrichmentResult is the envelope returned for one enrichment call.
// It is built once and never mutated afterwards.
type EnrichmentResult struct {
	Success    bool       `json:"success"`
	Emails     []string   `json:"emails,omitempty"`
	Method     string     `json:"method,omitempty"`
	Provenance Provenance `json:"provenance,omitempty"`
	Proxy      string     `json:"proxy,omitempty"`
	Confidence string     `json:"confidence,omitempty"`
	Reasoning  string     `json:"reasoning,omitempty"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Failed builds a failure envelope carrying an error message.
func Failed(err error) EnrichmentResult {
	return EnrichmentResult{Success: false, Error: err.Error()}
}

// NotFound builds a failure envelope for a run that completed without finding anything.
func NotFound(message string) EnrichmentResult {
	return EnrichmentResult{Success: false, Message: message}
}
