package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AnshKr2004/google-map-automation/internal/export"
	"github.com/AnshKr2004/google-map-automation/internal/inference"
	"github.com/AnshKr2004/google-map-automation/internal/session"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// maxBodyBytes caps request bodies; page-scraped listings are small.
const maxBodyBytes = 1 << 20

// StartSessionRequest starts a scrape session from a maps results page.
type StartSessionRequest struct {
	SourceURL string `json:"source_url" validate:"required,url"`
}

// AddListingResponse reports whether a listing was stored and the stored form.
type AddListingResponse struct {
	Added   bool          `json:"added"`
	Listing types.Listing `json:"listing"`
}

// decode reads a JSON body into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}

// handleEnrich runs the enrichment pipeline for one website. Not finding an email is a normal
// result and is reported in the envelope with status 200.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req types.EnrichRequest
	if err := decode(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err))
		return
	}

	result := s.enricher.Enrich(r.Context(), req.URL, req.BusinessName)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeContacts runs the broader model contact analysis.
func (s *Server) handleAnalyzeContacts(w http.ResponseWriter, r *http.Request) {
	var query types.BusinessQuery
	if err := decode(w, r, &query); err != nil {
		s.failure(w, err)
		return
	}
	if err := query.Validate(); err != nil {
		s.failure(w, validationError(err))
		return
	}

	if s.analyzer == nil {
		s.jsonResponse(w, HTTPStatus(inference.ErrNoClient), types.AnalysisResponse{Error: inference.ErrNoClient.Error()})
		return
	}

	analysis, err := s.analyzer.AnalyzeContacts(r.Context(), query)
	if err != nil {
		if s.verbose {
			log.Printf("Contact analysis failed: %v", err)
		}
		s.jsonResponse(w, http.StatusOK, types.AnalysisResponse{Error: err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis.Response())
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := decode(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	if err := validator.New().Struct(&req); err != nil {
		s.failure(w, validationError(err))
		return
	}

	sess, err := s.sessions.Start(r.Context(), req.SourceURL)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, sess.Stats())
}

func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	sess, ok := s.sessions.Active()
	if !ok {
		s.failure(w, session.ErrNoActiveSession)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Stats())
}

func (s *Server) handleStopSession(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.sessions.Stop()
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// handleAddListing stores a listing for the active session, enriching it first when it has a
// website and no email.
func (s *Server) handleAddListing(w http.ResponseWriter, r *http.Request) {
	var listing types.Listing
	if err := decode(w, r, &listing); err != nil {
		s.failure(w, err)
		return
	}
	if err := listing.Validate(); err != nil {
		s.failure(w, validationError(err))
		return
	}

	added, stored, err := s.sessions.AddListing(r.Context(), listing)
	if err != nil {
		s.failure(w, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, AddListingResponse{Added: added, Listing: stored})
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.store.ListListings(r.Context())
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"listings": listings,
		"count":    len(listings),
	})
}

func (s *Server) handleClearListings(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearListings(r.Context()); err != nil {
		s.failure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.store.ListListings(r.Context())
	if err != nil {
		s.failure(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(time.Now())))
	if err := export.Write(w, listings); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}

// handleSaveSettings replaces the stored settings. Omitted fields keep their current values.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.failure(w, err)
		return
	}
	if err := decode(w, r, &settings); err != nil {
		s.failure(w, err)
		return
	}
	if err := settings.Validate(); err != nil {
		s.failure(w, validationError(err))
		return
	}

	if err := s.store.SaveSettings(r.Context(), settings); err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}
