package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Listing is one business scraped from a map-search results page, plus any contacts attached to it.
type Listing struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name" validate:"required"`
	Address            string    `json:"address,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	AdditionalPhones   []string  `json:"additional_phones,omitempty"`
	Website            string    `json:"website,omitempty"`
	Email              string    `json:"email,omitempty"`
	AdditionalEmails   []string  `json:"additional_emails,omitempty"`
	SocialMedia        []string  `json:"social_media,omitempty"`
	AdditionalContacts []string  `json:"additional_contacts,omitempty"`
	Rating             string    `json:"rating,omitempty"`
	ScrapedAt          time.Time `json:"scraped_at"`
}

// SameBusiness reports whether two listings describe the same business.
// Listings are identified by the exact name and address pair.
func (l *Listing) SameBusiness(other *Listing) bool {
	return l.Name == other.Name && l.Address == other.Address
}

// HasEmail reports whether any email is attached to the listing.
func (l *Listing) HasEmail() bool {
	return l.Email != "" || len(l.AdditionalEmails) > 0
}

// Query converts the listing into the input for model-assisted inference.
func (l *Listing) Query() BusinessQuery {
	return BusinessQuery{
		Name:    l.Name,
		Website: l.Website,
		Address: l.Address,
		Phone:   l.Phone,
	}
}

// AttachEmails stores the winning emails on the listing. The first email becomes the primary one
// unless a primary is already set; the rest are appended to AdditionalEmails without duplicates.
func (l *Listing) AttachEmails(emails []string) {
	for _, email := range emails {
		if l.Email == "" {
			l.Email = email
			continue
		}
		if strings.EqualFold(l.Email, email) || containsFold(l.AdditionalEmails, email) {
			continue
		}
		l.AdditionalEmails = append(l.AdditionalEmails, email)
	}
}

// AttachPhones appends phones other than the primary phone, without duplicates.
func (l *Listing) AttachPhones(phones []string) {
	for _, phone := range phones {
		if phone == l.Phone || containsFold(l.AdditionalPhones, phone) {
			continue
		}
		l.AdditionalPhones = append(l.AdditionalPhones, phone)
	}
}

// AttachAnalysis merges a contact analysis into the listing.
func (l *Listing) AttachAnalysis(analysis *ContactAnalysis) {
	if analysis == nil {
		return
	}
	l.AttachEmails(analysis.Emails)
	l.AttachPhones(analysis.Phones)
	l.SocialMedia = appendMissing(l.SocialMedia, analysis.SocialMedia)
	l.AdditionalContacts = appendMissing(l.AdditionalContacts, analysis.AdditionalContacts)
}

func appendMissing(dst, src []string) []string {
	for _, v := range src {
		if !containsFold(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func containsFold(values []string, v string) bool {
	for _, existing := range values {
		if strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}

// Validate validates the Listing using the validator.
func (l *Listing) Validate() error {
	validate := validator.New()
	return validate.Struct(l)
}
