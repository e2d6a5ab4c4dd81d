package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/auth"
	"github.com/pkordes/tripplanner/internal/domain"
)

const tripNotFound = "trip not found"

type saveTripRequest struct {
	DraftID uuid.UUID `json:"draft_id"`
	Name    string    `json:"name"`
}

type shareRequest struct {
	Email      openapi_types.Email `json:"email"`
	Permission domain.Permission   `json:"permission"`
}

type visibilityRequest struct {
	Public *bool `json:"public"`
}

// tripResponse is a saved trip as the API shows it. The owner is not exposed.
type tripResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Destination string           `json:"destination"`
	Itinerary   domain.Itinerary `json:"itinerary"`
	IsPublic    bool             `json:"is_public"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   *string          `json:"updated_at,omitempty"`
}

// SaveTrip handles POST /trips.
func (s *Server) SaveTrip(w http.ResponseWriter, r *http.Request) {
	var req saveTripRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DraftID == uuid.Nil {
		requestError(w, "draft_id is required")
		return
	}
	trip, err := s.trips.Save(r.Context(), auth.IdentityFrom(r.Context()), req.Name, req.DraftID)
	if err != nil {
		s.writeError(w, r, err, draftNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// ListTrips handles GET /trips.
// Supports ?page=, ?limit= (defaults: page=1, limit=20, max=100) and ?destination=.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := pagination(r)
	page, err := s.trips.List(r.Context(), auth.IdentityFrom(r.Context()), r.URL.Query().Get("destination"), params)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newPageResponse(tripsToResponse(page), params))
}

// ListSharedTrips handles GET /trips/shared.
func (s *Server) ListSharedTrips(w http.ResponseWriter, r *http.Request) {
	params := pagination(r)
	page, err := s.trips.ListShared(r.Context(), auth.IdentityFrom(r.Context()), params)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newPageResponse(tripsToResponse(page), params))
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.Get(r.Context(), auth.IdentityFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}: overwrite the trip with a draft.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req saveTripRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DraftID == uuid.Nil {
		requestError(w, "draft_id is required")
		return
	}
	trip, err := s.trips.Update(r.Context(), auth.IdentityFrom(r.Context()), id, req.Name, req.DraftID)
	if err != nil {
		s.writeError(w, r, err, "trip or draft not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), auth.IdentityFrom(r.Context()), id); err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EditTrip handles POST /trips/{id}/edit: open the trip as a new draft.
func (s *Server) EditTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.trips.Edit(r.Context(), auth.IdentityFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ShareTrip handles POST /trips/{id}/shares.
func (s *Server) ShareTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req shareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	share, err := s.trips.Share(r.Context(), auth.IdentityFrom(r.Context()), id, string(req.Email), req.Permission)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, share)
}

// SetVisibility handles PUT /trips/{id}/visibility.
func (s *Server) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req visibilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Public == nil {
		requestError(w, "public is required")
		return
	}
	trip, err := s.trips.SetVisibility(r.Context(), auth.IdentityFrom(r.Context()), id, *req.Public)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// GetPublicTrip handles GET /public/trips/{id}. No identity is needed.
func (s *Server) GetPublicTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.GetPublic(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// --- mapping helpers --------------------------------------------------------

func tripToResponse(t domain.SavedTrip) tripResponse {
	resp := tripResponse{
		ID:          t.ID,
		Name:        t.Name,
		Destination: t.Destination,
		Itinerary:   t.Itinerary,
		IsPublic:    t.IsPublic,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.UpdatedAt != nil {
		u := t.UpdatedAt.UTC().Format(time.RFC3339)
		resp.UpdatedAt = &u
	}
	return resp
}

func tripsToResponse(page domain.Page[domain.SavedTrip]) domain.Page[tripResponse] {
	out := domain.Page[tripResponse]{Items: make([]tripResponse, len(page.Items)), Total: page.Total}
	for i, t := range page.Items {
		out.Items[i] = tripToResponse(t)
	}
	return out
}
