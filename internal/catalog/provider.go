package catalog

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Provider is the live travel catalog. Every search may block, so each
// takes a context and honors its cancellation.
type Provider interface {
	SearchFlights(ctx context.Context, s domain.FlightSearch) ([]domain.FlightOffer, error)
	SearchHotels(ctx context.Context, s domain.HotelSearch) ([]domain.HotelOffer, error)
	SearchActivities(ctx context.Context, s domain.ActivitySearch) ([]domain.ActivityOffer, error)
	GetWeatherForecast(ctx context.Context, destination string, dates []time.Time) ([]domain.Forecast, error)
}

// MockProvider simulates a travel catalog with fixed offers and artificial
// latency. Weather is pseudo-random but stable for a destination and date.
type MockProvider struct {
	latency time.Duration
}

// NewMockProvider returns a MockProvider whose searches take roughly latency
// to answer. Flights are the slowest and weather the fastest.
func NewMockProvider(latency time.Duration) *MockProvider {
	return &MockProvider{latency: latency}
}

var _ Provider = (*MockProvider)(nil)

func (p *MockProvider) wait(ctx context.Context, factor float64) error {
	d := time.Duration(float64(p.latency) * factor)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var airports = map[string]string{
	"paris":    "CDG",
	"tokyo":    "NRT",
	"london":   "LHR",
	"new york": "JFK",
	"rome":     "FCO",
	"bali":     "DPS",
}

// AirportCode returns the main airport for a destination, or an upper-cased
// three-letter abbreviation when the destination is unknown.
func AirportCode(destination string) string {
	key := strings.ToLower(strings.TrimSpace(destination))
	if code, ok := airports[key]; ok {
		return code
	}
	letters := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return -1
	}, key)
	if len(letters) > 3 {
		letters = letters[:3]
	}
	if letters == "" {
		return "XXX"
	}
	return letters
}

func fare(class domain.CabinClass, economy, business, first int64) int64 {
	switch class {
	case domain.CabinBusiness:
		return business
	case domain.CabinFirst:
		return first
	default:
		return economy
	}
}

func (p *MockProvider) SearchFlights(ctx context.Context, s domain.FlightSearch) ([]domain.FlightOffer, error) {
	if err := p.wait(ctx, 1.5); err != nil {
		return nil, fmt.Errorf("catalog.MockProvider.SearchFlights: %w", err)
	}
	dep := s.DepartureDate.Format(time.DateOnly)
	arr := s.DepartureDate.AddDate(0, 0, 1).Format(time.DateOnly)
	to := AirportCode(s.Destination)
	origin := strings.ToUpper(s.Origin)

	return []domain.FlightOffer{
		{
			PricedItem: domain.PricedItem{
				ID: "flight-1", Name: "Air France",
				Price:      fare(s.Class, 650, 2400, 4800),
				BookingURL: "https://booking.example.com/flight-1",
			},
			FlightNumber: "AF123",
			Departure:    domain.FlightEndpoint{Airport: origin, Time: "14:30", Date: dep},
			Arrival:      domain.FlightEndpoint{Airport: to, Time: "08:15+1", Date: arr},
			Duration:     "8h 45m",
		},
		{
			PricedItem: domain.PricedItem{
				ID: "flight-2", Name: "Delta",
				Price:      fare(s.Class, 580, 2200, 4500),
				BookingURL: "https://booking.example.com/flight-2",
			},
			FlightNumber: "DL456",
			Departure:    domain.FlightEndpoint{Airport: origin, Time: "22:15", Date: dep},
			Arrival:      domain.FlightEndpoint{Airport: to, Time: "12:30+1", Date: arr},
			Duration:     "9h 15m",
		},
	}, nil
}

func hotelMultiplier(b domain.Budget) float64 {
	switch b {
	case domain.BudgetCheap:
		return 0.6
	case domain.BudgetLuxury:
		return 2.5
	default:
		return 1
	}
}

func (p *MockProvider) SearchHotels(ctx context.Context, s domain.HotelSearch) ([]domain.HotelOffer, error) {
	if err := p.wait(ctx, 1.2); err != nil {
		return nil, fmt.Errorf("catalog.MockProvider.SearchHotels: %w", err)
	}
	m := hotelMultiplier(s.Budget)
	nights := s.Nights()

	offer := func(id, name string, base float64, rating float64, amenities []string, location, distance, cancel string) domain.HotelOffer {
		return domain.HotelOffer{
			PricedItem: domain.PricedItem{
				ID: id, Name: name,
				Price:      int64(math.Round(base * m)),
				BookingURL: "https://booking.example.com/" + id,
			},
			Rating:       rating,
			TotalPrice:   int64(math.Round(base * m * float64(nights))),
			Nights:       nights,
			ImageURL:     hotelImage,
			Amenities:    amenities,
			Location:     location,
			Distance:     distance,
			Cancellation: cancel,
		}
	}

	return []domain.HotelOffer{
		offer("hotel-1", "Grand Hotel Central", 180, 4.5,
			[]string{"Free WiFi", "Spa", "Restaurant", "Fitness Center"},
			"City Center", "0.5 km from center", "Free cancellation until 24h before check-in"),
		offer("hotel-2", "Boutique Palace", 250, 4.8,
			[]string{"Concierge", "Room Service", "Business Center", "Parking"},
			"Historic District", "1.2 km from center", "Free cancellation until 48h before check-in"),
	}, nil
}

func activityMultiplier(b domain.Budget) float64 {
	switch b {
	case domain.BudgetCheap:
		return 0.7
	case domain.BudgetLuxury:
		return 1.8
	default:
		return 1
	}
}

func (p *MockProvider) SearchActivities(ctx context.Context, s domain.ActivitySearch) ([]domain.ActivityOffer, error) {
	if err := p.wait(ctx, 1); err != nil {
		return nil, fmt.Errorf("catalog.MockProvider.SearchActivities: %w", err)
	}
	m := activityMultiplier(s.Budget)
	price := func(base float64) int64 { return int64(math.Round(base * m)) }

	all := []domain.ActivityOffer{
		{
			PricedItem: domain.PricedItem{ID: "activity-1", Name: "City Walking Tour", Price: price(35),
				BookingURL: "https://booking.example.com/activity-1"},
			Description:  "Explore the historic city center with a local guide",
			Duration:     "3 hours",
			Category:     domain.CategorySightseeing,
			Rating:       4.6,
			ImageURL:     CategoryImage(domain.CategorySightseeing),
			Location:     "City Center",
			Availability: "Daily at 10:00 AM",
		},
		{
			PricedItem: domain.PricedItem{ID: "activity-2", Name: "Food Market Experience", Price: price(55),
				BookingURL: "https://booking.example.com/activity-2"},
			Description:  "Taste local delicacies and learn about culinary traditions",
			Duration:     "2.5 hours",
			Category:     domain.CategoryFood,
			Rating:       4.8,
			ImageURL:     CategoryImage(domain.CategoryFood),
			Location:     "Central Market",
			Availability: "Tuesday to Sunday at 9:00 AM",
		},
		{
			PricedItem: domain.PricedItem{ID: "activity-3", Name: "Museum & Art Gallery Tour", Price: price(45),
				BookingURL: "https://booking.example.com/activity-3"},
			Description:  "Discover world-class art collections and cultural heritage",
			Duration:     "4 hours",
			Category:     domain.CategoryCulture,
			Rating:       4.4,
			ImageURL:     CategoryImage(domain.CategoryCulture),
			Location:     "Museum District",
			Availability: "Daily except Monday",
		},
	}
	if s.Category == "" {
		return all, nil
	}
	var filtered []domain.ActivityOffer
	for _, a := range all {
		if a.Category == s.Category {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

var conditions = []domain.Condition{
	domain.ConditionSunny, domain.ConditionPartlyCloudy, domain.ConditionCloudy, domain.ConditionRainy,
}

func (p *MockProvider) GetWeatherForecast(ctx context.Context, destination string, dates []time.Time) ([]domain.Forecast, error) {
	if err := p.wait(ctx, 0.8); err != nil {
		return nil, fmt.Errorf("catalog.MockProvider.GetWeatherForecast: %w", err)
	}
	out := make([]domain.Forecast, len(dates))
	for i, d := range dates {
		day := d.Format(time.DateOnly)
		r := rand.New(rand.NewPCG(seed(destination), seed(day)))
		out[i] = domain.Forecast{
			Date:      day,
			High:      round1(22 + r.Float64()*8),
			Low:       round1(15 + r.Float64()*5),
			Condition: conditions[r.IntN(len(conditions))],
			Humidity:  math.Round(45 + r.Float64()*30),
			WindSpeed: round1(5 + r.Float64()*15),
		}
	}
	return out, nil
}

func seed(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(s)))
	return h.Sum64()
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
