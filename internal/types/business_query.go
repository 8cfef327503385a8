// Package types provides type definitions for structured data used throughout the contact enrichment system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// BusinessQuery describes a listing being enriched. Every field is optional; address and phone
// are advisory and only used as prompt context.
type BusinessQuery struct {
	Name           string `json:"name,omitempty"`
	Website        string `json:"website,omitempty" validate:"omitempty,url"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Validate validates the BusinessQuery using the validator.
func (q *BusinessQuery) Validate() error {
	validate := validator.New()
	return validate.Struct(q)
}

// DisplayName returns the business name, or a neutral placeholder when it is absent.
func (q *BusinessQuery) DisplayName() string {
	if name := strings.TrimSpace(q.Name); name != "" {
		return name
	}
	return "Unknown Business"
}

// EnrichRequest is the inbound enrichment call made by the extension.
type EnrichRequest struct {
	URL          string `json:"url" validate:"omitempty,url"`
	BusinessName string `json:"business_name,omitempty"`
}

// Validate validates the EnrichRequest using the validator.
func (r *EnrichRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
