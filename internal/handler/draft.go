package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

const draftNotFound = "draft not found or expired"

type offerRequest struct {
	OfferID  string `json:"offer_id"`
	LegIndex *int   `json:"leg_index,omitempty"`
	DayIndex *int   `json:"day_index,omitempty"`
}

type addActivityResponse struct {
	Draft   domain.Draft `json:"draft"`
	Added   bool         `json:"added"`
	Message string       `json:"message,omitempty"`
}

type suggestionsResponse struct {
	Data   []domain.Activity `json:"data"`
	Source domain.Source     `json:"source"`
}

// CreateDraft handles POST /drafts: plan a new itinerary.
func (s *Server) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var in domain.TripInput
	if !decodeBody(w, r, &in) {
		return
	}
	d, err := s.planner.Plan(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, draftNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// GetDraft handles GET /drafts/{id}.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.planner.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, draftNotFound)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DiscardDraft handles DELETE /drafts/{id}.
func (s *Server) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.planner.Discard(r.Context(), id); err != nil {
		s.writeError(w, r, err, draftNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplanDraft handles PUT /drafts/{id}/input.
func (s *Server) ReplanDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.TripInput
	if !decodeBody(w, r, &in) {
		return
	}
	d, err := s.planner.Replan(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err, draftNotFound)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GetLive handles GET /drafts/{id}/live.
func (s *Server) GetLive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	live, err := s.planner.Live(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, draftNotFound)
		return
	}
	writeJSON(w, http.StatusOK, live)
}

// RefreshLive handles POST /drafts/{id}/live.
func (s *Server) RefreshLive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	live, err := s.planner.RefreshLive(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, draftNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, live)
}

// SelectFlight handles POST /drafts/{id}/flight.
func (s *Server) SelectFlight(w http.ResponseWriter, r *http.Request) {
	id, req, ok := offerCall(w, r)
	if !ok {
		return
	}
	d, err := s.planner.SelectFlight(r.Context(), id, req.OfferID, deref(req.LegIndex))
	if err != nil {
		s.writeError(w, r, err, "draft or offer not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// SelectHotel handles POST /drafts/{id}/hotel.
func (s *Server) SelectHotel(w http.ResponseWriter, r *http.Request) {
	id, req, ok := offerCall(w, r)
	if !ok {
		return
	}
	d, err := s.planner.SelectHotel(r.Context(), id, req.OfferID)
	if err != nil {
		s.writeError(w, r, err, "draft or offer not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// AddActivity handles POST /drafts/{id}/activities. An activity that is
// already scheduled is reported with added=false rather than an error.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	id, req, ok := offerCall(w, r)
	if !ok {
		return
	}
	d, added, err := s.planner.AddActivity(r.Context(), id, req.OfferID, deref(req.DayIndex))
	if err != nil {
		s.writeError(w, r, err, "draft or offer not found")
		return
	}
	resp := addActivityResponse{Draft: d, Added: added}
	if !added {
		resp.Message = "already added"
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSuggestions handles GET /drafts/{id}/suggestions.
func (s *Server) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	acts, source, err := s.planner.Suggestions(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, draftNotFound)
		return
	}
	if acts == nil {
		acts = []domain.Activity{}
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Data: acts, Source: source})
}

// offerCall parses the draft id and an offer request body.
func offerCall(w http.ResponseWriter, r *http.Request) (uuid.UUID, offerRequest, bool) {
	var req offerRequest
	id, ok := pathID(w, r)
	if !ok {
		return id, req, false
	}
	if !decodeBody(w, r, &req) {
		return id, req, false
	}
	req.OfferID = strings.TrimSpace(req.OfferID)
	if req.OfferID == "" {
		requestError(w, "offer_id is required")
		return id, req, false
	}
	return id, req, true
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
