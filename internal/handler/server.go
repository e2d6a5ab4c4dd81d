// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. They are split into domain-specific
// files (health.go, draft.go, trip.go, etc.) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/catalog"
	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/service"
)

// PlannerServicer is the draft workflow the draft handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the planner or live data.
type PlannerServicer interface {
	Plan(ctx context.Context, input domain.TripInput) (domain.Draft, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Draft, error)
	Discard(ctx context.Context, id uuid.UUID) error
	Replan(ctx context.Context, id uuid.UUID, input domain.TripInput) (domain.Draft, error)
	Live(ctx context.Context, id uuid.UUID) (domain.LiveData, error)
	RefreshLive(ctx context.Context, id uuid.UUID) (domain.LiveData, error)
	SelectFlight(ctx context.Context, id uuid.UUID, offerID string, legIndex int) (domain.Draft, error)
	SelectHotel(ctx context.Context, id uuid.UUID, offerID string) (domain.Draft, error)
	AddActivity(ctx context.Context, id uuid.UUID, offerID string, dayIndex int) (domain.Draft, bool, error)
	Suggestions(ctx context.Context, id uuid.UUID) ([]domain.Activity, domain.Source, error)
}

// TripServicer is the saved-trip workflow the trip handlers depend on.
type TripServicer interface {
	Save(ctx context.Context, caller domain.Identity, name string, draftID uuid.UUID) (domain.SavedTrip, error)
	List(ctx context.Context, caller domain.Identity, destination string, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error)
	ListShared(ctx context.Context, caller domain.Identity, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error)
	Get(ctx context.Context, caller domain.Identity, id uuid.UUID) (domain.SavedTrip, error)
	GetPublic(ctx context.Context, id uuid.UUID) (domain.SavedTrip, error)
	Update(ctx context.Context, caller domain.Identity, id uuid.UUID, name string, draftID uuid.UUID) (domain.SavedTrip, error)
	Edit(ctx context.Context, caller domain.Identity, id uuid.UUID) (domain.Draft, error)
	Delete(ctx context.Context, caller domain.Identity, id uuid.UUID) error
	Share(ctx context.Context, caller domain.Identity, id uuid.UUID, recipient string, perm domain.Permission) (domain.Share, error)
	SetVisibility(ctx context.Context, caller domain.Identity, id uuid.UUID, public bool) (domain.SavedTrip, error)
}

// ExportServicer renders a saved trip for download.
type ExportServicer interface {
	Export(ctx context.Context, caller domain.Identity, id uuid.UUID, format service.ExportFormat) (service.Export, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	planner PlannerServicer
	trips   TripServicer
	export  ExportServicer
	catalog catalog.Provider
	origin  string
	openAPI []byte
	log     *slog.Logger
}

// ServerOption customises a Server built by NewServer.
type ServerOption func(*Server)

// WithDefaultOrigin sets the airport flight searches depart from when the
// request names none. Empty values are ignored.
func WithDefaultOrigin(airport string) ServerOption {
	return func(s *Server) {
		if airport != "" {
			s.origin = airport
		}
	}
}

// NewServer constructs the Server with all its dependencies.
func NewServer(planner PlannerServicer, trips TripServicer, export ExportServicer, provider catalog.Provider, openAPI []byte, log *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{planner: planner, trips: trips, export: export, catalog: provider, origin: "JFK", openAPI: openAPI, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RouteOptions carries the per-group middleware chosen in main.go.
// Nil entries are skipped.
type RouteOptions struct {
	// PlanLimit wraps the endpoints that may call the model: POST /drafts,
	// PUT /drafts/{id}/input and GET /drafts/{id}/suggestions.
	PlanLimit func(http.Handler) http.Handler
	// TripAuth wraps every /trips route; account mode sets RequireIdentity.
	TripAuth func(http.Handler) http.Handler
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router, opts RouteOptions) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/search", func(r chi.Router) {
		r.Post("/flights", s.SearchFlights)
		r.Post("/hotels", s.SearchHotels)
		r.Post("/activities", s.SearchActivities)
		r.Post("/weather", s.SearchWeather)
	})

	r.Route("/drafts", func(r chi.Router) {
		r.With(optional(opts.PlanLimit)).Post("/", s.CreateDraft)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetDraft)
			r.Delete("/", s.DiscardDraft)
			r.With(optional(opts.PlanLimit)).Put("/input", s.ReplanDraft)
			r.Get("/live", s.GetLive)
			r.Post("/live", s.RefreshLive)
			r.Post("/flight", s.SelectFlight)
			r.Post("/hotel", s.SelectHotel)
			r.Post("/activities", s.AddActivity)
			r.With(optional(opts.PlanLimit)).Get("/suggestions", s.GetSuggestions)
		})
	})

	r.Route("/trips", func(r chi.Router) {
		r.Use(optional(opts.TripAuth))
		r.Post("/", s.SaveTrip)
		r.Get("/", s.ListTrips)
		r.Get("/shared", s.ListSharedTrips)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Post("/edit", s.EditTrip)
			r.Post("/shares", s.ShareTrip)
			r.Put("/visibility", s.SetVisibility)
			r.Get("/export", s.ExportTrip)
		})
	})

	r.Get("/public/trips/{id}", s.GetPublicTrip)
}

func optional(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
