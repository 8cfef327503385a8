package types

// ContactAnalysis is the structure the model is asked to return when analysing a business.
// The website-analysis prompt only requests Emails, Confidence and Reasoning.
type ContactAnalysis struct {
	Emails             []string `json:"emails"`
	Phones             []string `json:"phones,omitempty"`
	SocialMedia        []string `json:"social_media,omitempty"`
	AdditionalContacts []string `json:"additional_contacts,omitempty"`
	Confidence         string   `json:"confidence,omitempty"`
	Reasoning          string   `json:"reasoning,omitempty"`
	Suggestions        []string `json:"suggestions,omitempty"`
}

// TokenUsage reports token accounting returned by the model endpoint.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AnalysisResponse is the envelope returned for a contact analysis request.
type AnalysisResponse struct {
	Success bool             `json:"success"`
	Data    *ContactAnalysis `json:"data,omitempty"`
	Usage   *TokenUsage      `json:"usage,omitempty"`
	Model   string           `json:"model,omitempty"`
	Error   string           `json:"error,omitempty"`
}
