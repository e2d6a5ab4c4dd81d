package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/service"
)

// mockPlanner is a hand-written ItineraryPlanner double.
type mockPlanner struct {
	plan    func(ctx context.Context, in domain.TripInput) (domain.Itinerary, domain.Source, error)
	suggest func(ctx context.Context, in domain.TripInput, exclude []string) ([]domain.Activity, domain.Source)
}

func (m *mockPlanner) Plan(ctx context.Context, in domain.TripInput) (domain.Itinerary, domain.Source, error) {
	return m.plan(ctx, in)
}
func (m *mockPlanner) Suggest(ctx context.Context, in domain.TripInput, exclude []string) ([]domain.Activity, domain.Source) {
	return m.suggest(ctx, in, exclude)
}

var _ service.ItineraryPlanner = (*mockPlanner)(nil)

// mockLoader is a hand-written LiveFetcher double.
type mockLoader struct {
	fetch func(ctx context.Context, in domain.TripInput) (domain.LiveData, error)
}

func (m *mockLoader) Fetch(ctx context.Context, in domain.TripInput) (domain.LiveData, error) {
	return m.fetch(ctx, in)
}

var _ service.LiveFetcher = (*mockLoader)(nil)

// syncBuffer lets the test read logs written from fetch goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// ---- fixtures ---------------------------------------------------------------

func tripInput(dest string) domain.TripInput {
	return domain.TripInput{Destination: dest, Duration: 2, Budget: domain.BudgetModerate, GroupType: domain.GroupCouple}
}

// planFor builds a consistent two-day itinerary for in: 80 in activities,
// a 100/200 hotel and a 500 flight.
func planFor(in domain.TripInput) domain.Itinerary {
	it := domain.Itinerary{
		ID:          uuid.New(),
		Destination: in.Destination,
		Duration:    in.Duration,
		Budget:      in.Budget,
		GroupType:   in.GroupType,
		Days: []domain.ItineraryDay{
			{Day: 1, Activities: []domain.Activity{{ID: "a1", Name: "Old town walk", Cost: 20}}},
			{Day: 2, Activities: []domain.Activity{{ID: "a2", Name: "Museum", Cost: 60}}},
		},
		Accommodation: domain.Accommodation{ID: "acc", Name: "Inn", PricePerNight: 100, TotalPrice: 200},
		Transport:     []domain.Transport{{ID: "t1", Type: domain.TransportFlight, From: "JFK", To: "XXX", Cost: 500}},
	}
	it.Reconcile()
	return it
}

func liveFor(in domain.TripInput) domain.LiveData {
	return domain.LiveData{
		Flights: []domain.FlightOffer{{
			PricedItem: domain.PricedItem{ID: "f-" + in.Destination, Name: "Skyways", Price: 700},
			Departure:  domain.FlightEndpoint{Airport: "JFK"},
			Arrival:    domain.FlightEndpoint{Airport: "CDG"},
		}},
		Hotels: []domain.HotelOffer{
			{PricedItem: domain.PricedItem{ID: "h1", Name: "Grand", Price: 150}, TotalPrice: 300},
			{PricedItem: domain.PricedItem{ID: "h2", Name: "Odd", Price: 150}, TotalPrice: 400},
		},
		Activities: []domain.ActivityOffer{
			{PricedItem: domain.PricedItem{ID: "x1", Name: "Cooking class", Price: 80}},
		},
	}
}

func staticPlanner() *mockPlanner {
	return &mockPlanner{
		plan: func(_ context.Context, in domain.TripInput) (domain.Itinerary, domain.Source, error) {
			if err := in.Validate(); err != nil {
				return domain.Itinerary{}, "", err
			}
			return planFor(in), domain.SourceCatalog, nil
		},
	}
}

func readyLoader() *mockLoader {
	return &mockLoader{fetch: func(_ context.Context, in domain.TripInput) (domain.LiveData, error) {
		return liveFor(in), nil
	}}
}

func newPlanner(t *testing.T, p service.ItineraryPlanner, l service.LiveFetcher, log io.Writer) *service.PlannerService {
	t.Helper()
	if log == nil {
		log = io.Discard
	}
	svc := service.NewPlannerService(p, l, 10, time.Hour, slog.New(slog.NewJSONHandler(log, nil)))
	t.Cleanup(svc.Close)
	return svc
}

// waitLive polls until the draft's live data leaves the loading state.
func waitLive(t *testing.T, svc *service.PlannerService, id uuid.UUID) domain.LiveData {
	t.Helper()
	var live domain.LiveData
	require.Eventually(t, func() bool {
		var err error
		live, err = svc.Live(context.Background(), id)
		require.NoError(t, err)
		return live.Status != domain.LiveLoading
	}, 2*time.Second, 5*time.Millisecond)
	return live
}

func readyDraft(t *testing.T, svc *service.PlannerService) domain.Draft {
	t.Helper()
	d, err := svc.Plan(context.Background(), tripInput("Paris"))
	require.NoError(t, err)
	require.Equal(t, domain.LiveReady, waitLive(t, svc, d.ID).Status)
	return d
}

// ---- Plan / Get / Discard ---------------------------------------------------

func TestPlannerService_Plan_StartsLiveFetch(t *testing.T) {
	release := make(chan struct{})
	loader := &mockLoader{fetch: func(_ context.Context, in domain.TripInput) (domain.LiveData, error) {
		<-release
		return liveFor(in), nil
	}}
	svc := newPlanner(t, staticPlanner(), loader, nil)

	d, err := svc.Plan(context.Background(), tripInput("  Paris "))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.Equal(t, "Paris", d.Input.Destination)
	assert.Equal(t, domain.SourceCatalog, d.Source)
	assert.Equal(t, domain.LiveLoading, d.Live.Status)
	assert.Empty(t, d.Live.Flights, "no offers while loading")

	close(release)
	live := waitLive(t, svc, d.ID)
	assert.Equal(t, domain.LiveReady, live.Status)
	assert.Len(t, live.Hotels, 2)
}

func TestPlannerService_Plan_Invalid(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)

	_, err := svc.Plan(context.Background(), domain.TripInput{Destination: "Paris"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlannerService_Get_ReturnsSnapshot(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)
	d := readyDraft(t, svc)

	d.Itinerary.Days[0].Activities[0].Name = "mutated"

	got, err := svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old town walk", got.Itinerary.Days[0].Activities[0].Name)
}

func TestPlannerService_Discard(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)
	ctx := context.Background()
	d := readyDraft(t, svc)

	require.NoError(t, svc.Discard(ctx, d.ID))

	_, err := svc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Discard(ctx, d.ID), domain.ErrNotFound)
}

func TestPlannerService_DraftsExpire(t *testing.T) {
	svc := service.NewPlannerService(staticPlanner(), readyLoader(), 10, 30*time.Millisecond, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	t.Cleanup(svc.Close)

	d, err := svc.Plan(context.Background(), tripInput("Paris"))
	require.NoError(t, err)

	// Every Get refreshes the TTL, so wait without polling.
	time.Sleep(100 * time.Millisecond)

	_, err = svc.Get(context.Background(), d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- live data ----------------------------------------------------------------

func TestPlannerService_Replan_DiscardsStaleLiveData(t *testing.T) {
	parisRelease := make(chan struct{})
	loader := &mockLoader{fetch: func(_ context.Context, in domain.TripInput) (domain.LiveData, error) {
		if in.Destination == "Paris" {
			// Ignores cancellation so the stale result really lands.
			<-parisRelease
			return liveFor(in), nil
		}
		return liveFor(in), nil
	}}
	svc := newPlanner(t, staticPlanner(), loader, nil)
	ctx := context.Background()

	d, err := svc.Plan(ctx, tripInput("Paris"))
	require.NoError(t, err)

	replanned, err := svc.Replan(ctx, d.ID, tripInput("Tokyo"))
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", replanned.Itinerary.Destination)

	live := waitLive(t, svc, d.ID)
	require.Equal(t, domain.LiveReady, live.Status)
	assert.Equal(t, "f-Tokyo", live.Flights[0].ID)

	close(parisRelease)
	svc.Close() // waits for the Paris fetch to deliver

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "f-Tokyo", got.Live.Flights[0].ID, "late Paris result must be dropped")
	assert.Equal(t, "Tokyo", got.Input.Destination)
}

func TestPlannerService_Replan_Invalid(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)
	d := readyDraft(t, svc)

	_, err := svc.Replan(context.Background(), d.ID, domain.TripInput{Destination: "Rome", Duration: 0})

	assert.ErrorIs(t, err, domain.ErrValidation)
	got, err := svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Itinerary.Destination)
}

func TestPlannerService_Replan_PlanFailureRestartsFetch(t *testing.T) {
	p := staticPlanner()
	svc := newPlanner(t, p, readyLoader(), nil)
	d := readyDraft(t, svc)

	p.plan = func(context.Context, domain.TripInput) (domain.Itinerary, domain.Source, error) {
		return domain.Itinerary{}, "", domain.ErrCatalogEmpty
	}
	_, err := svc.Replan(context.Background(), d.ID, tripInput("Rome"))

	require.ErrorIs(t, err, domain.ErrCatalogEmpty)
	assert.Equal(t, domain.LiveReady, waitLive(t, svc, d.ID).Status, "live data must not stay loading")
}

func TestPlannerService_Live_FailureMessage(t *testing.T) {
	var calls atomic.Int32
	loader := &mockLoader{fetch: func(_ context.Context, in domain.TripInput) (domain.LiveData, error) {
		if calls.Add(1) == 1 {
			return domain.LiveData{}, errors.New("upstream 503")
		}
		return liveFor(in), nil
	}}
	svc := newPlanner(t, staticPlanner(), loader, nil)
	ctx := context.Background()

	d, err := svc.Plan(ctx, tripInput("Paris"))
	require.NoError(t, err)

	live := waitLive(t, svc, d.ID)
	assert.Equal(t, domain.LiveFailed, live.Status)
	assert.Equal(t, "Failed to fetch live travel data. Please try again.", live.Error)
	assert.Empty(t, live.Flights)

	_, err = svc.SelectFlight(ctx, d.ID, "f-Paris", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "refresh")

	refreshed, err := svc.RefreshLive(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LiveLoading, refreshed.Status)
	assert.Equal(t, domain.LiveReady, waitLive(t, svc, d.ID).Status)
}

// ---- ledger operations --------------------------------------------------------

func TestPlannerService_OpsNeedReadyLiveData(t *testing.T) {
	release := make(chan struct{})
	loader := &mockLoader{fetch: func(_ context.Context, in domain.TripInput) (domain.LiveData, error) {
		<-release
		return liveFor(in), nil
	}}
	svc := newPlanner(t, staticPlanner(), loader, nil)
	defer close(release)

	d, err := svc.Plan(context.Background(), tripInput("Paris"))
	require.NoError(t, err)

	_, err = svc.SelectHotel(context.Background(), d.ID, "h1")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "live data is still loading")
}

func TestPlannerService_SelectFlight(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)
	d := readyDraft(t, svc)

	got, err := svc.SelectFlight(context.Background(), d.ID, "f-Paris", 0)

	require.NoError(t, err)
	assert.EqualValues(t, 700, got.Itinerary.Transport[0].Cost)
	assert.Equal(t, "Skyways", got.Itinerary.Transport[0].Provider)
	assert.Equal(t, d.Itinerary.TotalCost+200, got.Itinerary.TotalCost)
	assert.True(t, got.Itinerary.Consistent())
}

func TestPlannerService_SelectFlight_Errors(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)
	d := readyDraft(t, svc)

	tests := []struct {
		name    string
		offerID string
		leg     int
		wantErr error
	}{
		{"unknown offer", "nope", 0, domain.ErrNotFound},
		{"not a flight", "h1", 0, domain.ErrValidation},
		{"leg out of range", "f-Paris", 3, domain.ErrIndexOutOfRange},
		{"negative leg", "f-Paris", -1, domain.ErrIndexOutOfRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SelectFlight(context.Background(), d.ID, tc.offerID, tc.leg)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	got, err := svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Itinerary.TotalCost, got.Itinerary.TotalCost, "failed ops leave the ledger untouched")
}

func TestPlannerService_SelectHotel(t *testing.T) {
	logs := &syncBuffer{}
	svc := newPlanner(t, staticPlanner(), readyLoader(), logs)
	d := readyDraft(t, svc)

	got, err := svc.SelectHotel(context.Background(), d.ID, "h1")
	require.NoError(t, err)
	assert.EqualValues(t, 300, got.Itinerary.Accommodation.TotalPrice)
	assert.Equal(t, d.Itinerary.TotalCost+100, got.Itinerary.TotalCost)
	assert.NotContains(t, logs.String(), "hotel total disagrees")

	// h2 claims 400 for two nights at 150: trusted, but logged.
	got, err = svc.SelectHotel(context.Background(), d.ID, "h2")
	require.NoError(t, err)
	assert.EqualValues(t, 400, got.Itinerary.Accommodation.TotalPrice)
	assert.True(t, got.Itinerary.Consistent())
	assert.Contains(t, logs.String(), "hotel total disagrees")
}

func TestPlannerService_AddActivity(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)
	d := readyDraft(t, svc)
	ctx := context.Background()

	got, added, err := svc.AddActivity(ctx, d.ID, "x1", 1)
	require.NoError(t, err)
	assert.True(t, added)
	require.Len(t, got.Itinerary.Days[1].Activities, 2)
	assert.Equal(t, domain.DefaultActivityTime, got.Itinerary.Days[1].Activities[1].Time)
	assert.EqualValues(t, 140, got.Itinerary.Days[1].TotalCost)
	assert.Equal(t, d.Itinerary.TotalCost+80, got.Itinerary.TotalCost)

	again, added, err := svc.AddActivity(ctx, d.ID, "x1", 0)
	require.NoError(t, err, "a duplicate is not an error")
	assert.False(t, added)
	assert.Equal(t, got.Itinerary.TotalCost, again.Itinerary.TotalCost)
	assert.Len(t, again.Itinerary.Days[0].Activities, 1)

	fresh := readyDraft(t, svc)
	_, _, err = svc.AddActivity(ctx, fresh.ID, "x1", 9)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestPlannerService_Suggestions(t *testing.T) {
	p := staticPlanner()
	var excluded []string
	p.suggest = func(_ context.Context, in domain.TripInput, exclude []string) ([]domain.Activity, domain.Source) {
		excluded = exclude
		return []domain.Activity{{ID: "s1", Name: "Boat tour"}}, domain.SourceAI
	}
	svc := newPlanner(t, p, readyLoader(), nil)
	d := readyDraft(t, svc)

	acts, source, err := svc.Suggestions(context.Background(), d.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.SourceAI, source)
	assert.Len(t, acts, 1)
	assert.Equal(t, []string{"Old town walk", "Museum"}, excluded)

	_, _, err = svc.Suggestions(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Open ---------------------------------------------------------------------

func TestPlannerService_Open(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)
	trip := domain.SavedTrip{ID: uuid.New(), Name: "Paris", Itinerary: planFor(tripInput("Paris"))}

	d, err := svc.Open(context.Background(), trip)

	require.NoError(t, err)
	assert.Equal(t, domain.SourceSaved, d.Source)
	require.NotNil(t, d.SavedTripID)
	assert.Equal(t, trip.ID, *d.SavedTripID)
	assert.Equal(t, tripInput("Paris"), d.Input)
	assert.Equal(t, domain.LiveReady, waitLive(t, svc, d.ID).Status)
}

func TestPlannerService_Open_Inconsistent(t *testing.T) {
	svc := newPlanner(t, staticPlanner(), readyLoader(), nil)
	it := planFor(tripInput("Paris"))
	it.TotalCost++

	_, err := svc.Open(context.Background(), domain.SavedTrip{ID: uuid.New(), Itinerary: it})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
