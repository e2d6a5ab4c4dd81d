package repo_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// itineraryFixture returns a small consistent itinerary for destination.
func itineraryFixture(destination string) domain.Itinerary {
	it := domain.Itinerary{
		ID:          uuid.New(),
		Destination: destination,
		Duration:    2,
		Budget:      domain.BudgetModerate,
		GroupType:   domain.GroupCouple,
		Days: []domain.ItineraryDay{
			{Day: 1, Date: "Monday, June 1, 2026", Activities: []domain.Activity{
				{ID: "a1", Name: "Museum", Time: "09:00", Duration: "2 hours", Cost: 20, Category: domain.CategoryCulture},
			}},
			{Day: 2, Date: "Tuesday, June 2, 2026", Activities: []domain.Activity{
				{ID: "a2", Name: "Food tour", Time: "14:00", Duration: "3 hours", Cost: 60, Category: domain.CategoryFood},
			}},
		},
		Accommodation: domain.Accommodation{ID: "h1", Name: "Hotel", Type: "Hotel", PricePerNight: 100, TotalPrice: 200},
		Transport: []domain.Transport{
			{ID: "t1", Type: domain.TransportFlight, From: "JFK", To: "CDG", Provider: "Air", Cost: 500},
		},
		CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	it.Reconcile()
	return it
}

// tripFixture returns a SavedTrip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture(owner uuid.UUID, destination string) domain.SavedTrip {
	return domain.SavedTrip{
		OwnerID:     owner,
		Name:        "Trip to " + destination,
		Destination: destination,
		Itinerary:   itineraryFixture(destination),
	}
}
