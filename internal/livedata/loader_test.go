package livedata_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/catalog"
	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/livedata"
)

// failingProvider wraps the mock catalog and fails hotel searches.
type failingProvider struct {
	*catalog.MockProvider
	calls atomic.Int32
}

func (p *failingProvider) SearchHotels(ctx context.Context, s domain.HotelSearch) ([]domain.HotelOffer, error) {
	p.calls.Add(1)
	return nil, errors.New("hotel service unavailable")
}

var _ catalog.Provider = (*failingProvider)(nil)

var today = time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)

func input() domain.TripInput {
	return domain.TripInput{Destination: "Tokyo", Duration: 3, Budget: domain.BudgetLuxury, GroupType: domain.GroupCouple}
}

func TestLoader_Searches(t *testing.T) {
	l := livedata.NewLoader(catalog.NewMockProvider(0), "JFK", time.Second).WithClock(func() time.Time { return today })

	fs, hs, as, dates := l.Searches(input())

	wantDep := time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantDep, fs.DepartureDate)
	require.NotNil(t, fs.ReturnDate)
	assert.Equal(t, wantDep.AddDate(0, 0, 3), *fs.ReturnDate)
	assert.Equal(t, "JFK", fs.Origin)
	assert.Equal(t, 2, fs.Passengers)
	assert.Equal(t, domain.CabinBusiness, fs.Class)

	assert.Equal(t, 3, hs.Nights())
	assert.Equal(t, 1, hs.Rooms)
	assert.Equal(t, 2, hs.Guests)
	assert.Equal(t, domain.GroupCouple, as.GroupType)
	assert.Len(t, dates, 3)
}

func TestLoader_Fetch_AllFour(t *testing.T) {
	l := livedata.NewLoader(catalog.NewMockProvider(100*time.Millisecond), "JFK", time.Second).
		WithClock(func() time.Time { return today })

	start := time.Now()
	live, err := l.Fetch(context.Background(), input())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, domain.LiveReady, live.Status)
	assert.Len(t, live.Flights, 2)
	assert.Len(t, live.Hotels, 2)
	assert.Len(t, live.Activities, 3)
	assert.Len(t, live.Weather, 3)
	assert.Equal(t, int64(450*3), live.Hotels[0].TotalPrice)
	require.NotNil(t, live.FetchedAt)
	// Sequential searches would take 450ms; concurrent ones take as long as the slowest.
	assert.Less(t, elapsed, 400*time.Millisecond)
}

func TestLoader_Fetch_AnyFailureFailsGroup(t *testing.T) {
	p := &failingProvider{MockProvider: catalog.NewMockProvider(0)}
	l := livedata.NewLoader(p, "JFK", time.Second)

	live, err := l.Fetch(context.Background(), input())

	require.Error(t, err)
	assert.ErrorContains(t, err, "hotel service unavailable")
	assert.Empty(t, live.Flights, "partial results are not returned")
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestLoader_Fetch_Timeout(t *testing.T) {
	l := livedata.NewLoader(catalog.NewMockProvider(time.Second), "JFK", 5*time.Millisecond)

	_, err := l.Fetch(context.Background(), input())

	require.ErrorIs(t, err, context.DeadlineExceeded)
}
