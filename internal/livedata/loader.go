// Package livedata fetches flights, hotels, activities and weather for a
// trip as one group.
package livedata

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/tripplanner/internal/catalog"
	"github.com/pkordes/tripplanner/internal/domain"
)

// leadTime is how far ahead of today the searched departure is.
const leadTime = 7 * 24 * time.Hour

// Loader runs the four catalog searches for a TripInput concurrently.
type Loader struct {
	provider catalog.Provider
	origin   string
	timeout  time.Duration
	now      func() time.Time
}

// NewLoader returns a Loader that searches from origin and gives up after timeout.
// A zero timeout means the caller's context alone bounds the fetch.
func NewLoader(provider catalog.Provider, origin string, timeout time.Duration) *Loader {
	return &Loader{provider: provider, origin: origin, timeout: timeout, now: time.Now}
}

// WithClock returns a copy of l that reads the current date from now.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	cp := *l
	cp.now = now
	return &cp
}

// Searches derives the four search requests for in.
func (l *Loader) Searches(in domain.TripInput) (domain.FlightSearch, domain.HotelSearch, domain.ActivitySearch, []time.Time) {
	today := l.now().UTC().Truncate(24 * time.Hour)
	departure := today.Add(leadTime)
	ret := departure.AddDate(0, 0, in.Duration)
	party := in.GroupType.PartySize()

	flights := domain.FlightSearch{
		Origin:        l.origin,
		Destination:   in.Destination,
		DepartureDate: departure,
		ReturnDate:    &ret,
		Passengers:    party,
		Class:         in.Budget.CabinClass(),
	}
	hotels := domain.HotelSearch{
		Destination: in.Destination,
		CheckIn:     departure,
		CheckOut:    ret,
		Guests:      party,
		Rooms:       1,
		Budget:      in.Budget,
	}
	activities := domain.ActivitySearch{
		Destination: in.Destination,
		Budget:      in.Budget,
		GroupType:   in.GroupType,
	}
	dates := make([]time.Time, in.Duration)
	for i := range dates {
		dates[i] = departure.AddDate(0, 0, i)
	}
	return flights, hotels, activities, dates
}

// Fetch runs all four searches and returns them as a ready LiveData.
// If any search fails the whole group fails; partial results are never returned.
func (l *Loader) Fetch(ctx context.Context, in domain.TripInput) (domain.LiveData, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	fs, hs, as, dates := l.Searches(in)
	var out domain.LiveData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Flights, err = l.provider.SearchFlights(gctx, fs)
		if err != nil {
			return fmt.Errorf("flights: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.Hotels, err = l.provider.SearchHotels(gctx, hs)
		if err != nil {
			return fmt.Errorf("hotels: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.Activities, err = l.provider.SearchActivities(gctx, as)
		if err != nil {
			return fmt.Errorf("activities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.Weather, err = l.provider.GetWeatherForecast(gctx, in.Destination, dates)
		if err != nil {
			return fmt.Errorf("weather: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.LiveData{}, fmt.Errorf("livedata.Loader.Fetch: %w", err)
	}

	fetched := l.now()
	out.Status = domain.LiveReady
	out.FetchedAt = &fetched
	return out, nil
}
