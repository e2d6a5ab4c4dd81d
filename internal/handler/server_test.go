package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/apierror"
	"github.com/pkordes/tripplanner/internal/catalog"
	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/handler"
	"github.com/pkordes/tripplanner/internal/service"
)

// mockPlanner is a test double for handler.PlannerServicer.
// Set only the method fields your test needs.
type mockPlanner struct {
	plan         func(ctx context.Context, in domain.TripInput) (domain.Draft, error)
	get          func(ctx context.Context, id uuid.UUID) (domain.Draft, error)
	discard      func(ctx context.Context, id uuid.UUID) error
	replan       func(ctx context.Context, id uuid.UUID, in domain.TripInput) (domain.Draft, error)
	live         func(ctx context.Context, id uuid.UUID) (domain.LiveData, error)
	refreshLive  func(ctx context.Context, id uuid.UUID) (domain.LiveData, error)
	selectFlight func(ctx context.Context, id uuid.UUID, offerID string, leg int) (domain.Draft, error)
	selectHotel  func(ctx context.Context, id uuid.UUID, offerID string) (domain.Draft, error)
	addActivity  func(ctx context.Context, id uuid.UUID, offerID string, day int) (domain.Draft, bool, error)
	suggestions  func(ctx context.Context, id uuid.UUID) ([]domain.Activity, domain.Source, error)
}

func (m *mockPlanner) Plan(ctx context.Context, in domain.TripInput) (domain.Draft, error) {
	return m.plan(ctx, in)
}
func (m *mockPlanner) Get(ctx context.Context, id uuid.UUID) (domain.Draft, error) {
	return m.get(ctx, id)
}
func (m *mockPlanner) Discard(ctx context.Context, id uuid.UUID) error {
	return m.discard(ctx, id)
}
func (m *mockPlanner) Replan(ctx context.Context, id uuid.UUID, in domain.TripInput) (domain.Draft, error) {
	return m.replan(ctx, id, in)
}
func (m *mockPlanner) Live(ctx context.Context, id uuid.UUID) (domain.LiveData, error) {
	return m.live(ctx, id)
}
func (m *mockPlanner) RefreshLive(ctx context.Context, id uuid.UUID) (domain.LiveData, error) {
	return m.refreshLive(ctx, id)
}
func (m *mockPlanner) SelectFlight(ctx context.Context, id uuid.UUID, offerID string, leg int) (domain.Draft, error) {
	return m.selectFlight(ctx, id, offerID, leg)
}
func (m *mockPlanner) SelectHotel(ctx context.Context, id uuid.UUID, offerID string) (domain.Draft, error) {
	return m.selectHotel(ctx, id, offerID)
}
func (m *mockPlanner) AddActivity(ctx context.Context, id uuid.UUID, offerID string, day int) (domain.Draft, bool, error) {
	return m.addActivity(ctx, id, offerID, day)
}
func (m *mockPlanner) Suggestions(ctx context.Context, id uuid.UUID) ([]domain.Activity, domain.Source, error) {
	return m.suggestions(ctx, id)
}

var _ handler.PlannerServicer = (*mockPlanner)(nil)

// mockTrips is a test double for handler.TripServicer.
type mockTrips struct {
	save          func(ctx context.Context, caller domain.Identity, name string, draftID uuid.UUID) (domain.SavedTrip, error)
	list          func(ctx context.Context, caller domain.Identity, dest string, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error)
	listShared    func(ctx context.Context, caller domain.Identity, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error)
	get           func(ctx context.Context, caller domain.Identity, id uuid.UUID) (domain.SavedTrip, error)
	getPublic     func(ctx context.Context, id uuid.UUID) (domain.SavedTrip, error)
	update        func(ctx context.Context, caller domain.Identity, id uuid.UUID, name string, draftID uuid.UUID) (domain.SavedTrip, error)
	edit          func(ctx context.Context, caller domain.Identity, id uuid.UUID) (domain.Draft, error)
	delete        func(ctx context.Context, caller domain.Identity, id uuid.UUID) error
	share         func(ctx context.Context, caller domain.Identity, id uuid.UUID, recipient string, perm domain.Permission) (domain.Share, error)
	setVisibility func(ctx context.Context, caller domain.Identity, id uuid.UUID, public bool) (domain.SavedTrip, error)
}

func (m *mockTrips) Save(ctx context.Context, c domain.Identity, name string, d uuid.UUID) (domain.SavedTrip, error) {
	return m.save(ctx, c, name, d)
}
func (m *mockTrips) List(ctx context.Context, c domain.Identity, dest string, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error) {
	return m.list(ctx, c, dest, p)
}
func (m *mockTrips) ListShared(ctx context.Context, c domain.Identity, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error) {
	return m.listShared(ctx, c, p)
}
func (m *mockTrips) Get(ctx context.Context, c domain.Identity, id uuid.UUID) (domain.SavedTrip, error) {
	return m.get(ctx, c, id)
}
func (m *mockTrips) GetPublic(ctx context.Context, id uuid.UUID) (domain.SavedTrip, error) {
	return m.getPublic(ctx, id)
}
func (m *mockTrips) Update(ctx context.Context, c domain.Identity, id uuid.UUID, name string, d uuid.UUID) (domain.SavedTrip, error) {
	return m.update(ctx, c, id, name, d)
}
func (m *mockTrips) Edit(ctx context.Context, c domain.Identity, id uuid.UUID) (domain.Draft, error) {
	return m.edit(ctx, c, id)
}
func (m *mockTrips) Delete(ctx context.Context, c domain.Identity, id uuid.UUID) error {
	return m.delete(ctx, c, id)
}
func (m *mockTrips) Share(ctx context.Context, c domain.Identity, id uuid.UUID, r string, p domain.Permission) (domain.Share, error) {
	return m.share(ctx, c, id, r, p)
}
func (m *mockTrips) SetVisibility(ctx context.Context, c domain.Identity, id uuid.UUID, public bool) (domain.SavedTrip, error) {
	return m.setVisibility(ctx, c, id, public)
}

var _ handler.TripServicer = (*mockTrips)(nil)

type mockExport struct {
	export func(ctx context.Context, caller domain.Identity, id uuid.UUID, f service.ExportFormat) (service.Export, error)
}

func (m *mockExport) Export(ctx context.Context, c domain.Identity, id uuid.UUID, f service.ExportFormat) (service.Export, error) {
	return m.export(ctx, c, id, f)
}

var _ handler.ExportServicer = (*mockExport)(nil)

// ---- helpers ---------------------------------------------------------------

type deps struct {
	planner handler.PlannerServicer
	trips   handler.TripServicer
	export  handler.ExportServicer
	catalog catalog.Provider
	opts    handler.RouteOptions
	server  []handler.ServerOption
}

// newHTTPHandler wires a Server with the given doubles into a chi router,
// mirroring how main.go mounts it.
func newHTTPHandler(d deps) http.Handler {
	if d.catalog == nil {
		d.catalog = catalog.NewMockProvider(0)
	}
	srv := handler.NewServer(d.planner, d.trips, d.export, d.catalog, []byte("openapi: 3.0.3\n"), slog.New(slog.NewJSONHandler(io.Discard, nil)), d.server...)
	r := chi.NewRouter()
	srv.Routes(r, d.opts)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) apierror.Detail {
	t.Helper()
	return decode[apierror.Body](t, rec).Error
}

func itineraryFixture() domain.Itinerary {
	it := domain.Itinerary{
		ID:          uuid.New(),
		Destination: "Paris",
		Duration:    1,
		Budget:      domain.BudgetModerate,
		GroupType:   domain.GroupCouple,
		Days: []domain.ItineraryDay{
			{Day: 1, Activities: []domain.Activity{{ID: "a1", Name: "Louvre", Cost: 17}}},
		},
		Accommodation: domain.Accommodation{ID: "h", Name: "Inn", PricePerNight: 250, TotalPrice: 250},
		Transport:     []domain.Transport{{ID: "t", Type: domain.TransportFlight, Cost: 650}},
	}
	it.Reconcile()
	return it
}

func draftFixture() domain.Draft {
	it := itineraryFixture()
	return domain.Draft{ID: uuid.New(), Input: it.Input(), Itinerary: it, Source: domain.SourceCatalog,
		Live: domain.LiveData{Status: domain.LiveLoading}}
}
