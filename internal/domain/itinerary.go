package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies an activity.
type Category string

const (
	CategorySightseeing Category = "sightseeing"
	CategoryFood        Category = "food"
	CategoryActivity    Category = "activity"
	CategoryShopping    Category = "shopping"
	CategoryCulture     Category = "culture"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategorySightseeing, CategoryFood, CategoryActivity, CategoryShopping, CategoryCulture:
		return true
	}
	return false
}

// TransportType classifies a transport leg.
type TransportType string

const (
	TransportFlight TransportType = "flight"
	TransportTrain  TransportType = "train"
	TransportBus    TransportType = "bus"
	TransportCar    TransportType = "car"
	TransportLocal  TransportType = "local"
)

func (t TransportType) Valid() bool {
	switch t {
	case TransportFlight, TransportTrain, TransportBus, TransportCar, TransportLocal:
		return true
	}
	return false
}

// Activity is a single scheduled thing to do. Cost is in whole currency units.
type Activity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Time        string   `json:"time"`
	Duration    string   `json:"duration"`
	Cost        int64    `json:"cost"`
	Location    string   `json:"location"`
	ImageURL    string   `json:"image_url"`
	Category    Category `json:"category"`
	BookingURL  string   `json:"booking_url,omitempty"`
}

// ItineraryDay is one day of a trip. TotalCost is always the sum of the
// activities' costs; it is maintained by the ledger methods on Itinerary.
type ItineraryDay struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
	TotalCost  int64      `json:"total_cost"`
}

// SumActivities returns the cost of all activities on the day.
func (d ItineraryDay) SumActivities() int64 {
	var sum int64
	for _, a := range d.Activities {
		sum += a.Cost
	}
	return sum
}

// Accommodation is the single place to stay for the whole trip.
// TotalPrice is pricePerNight × nights as computed by whoever supplied it.
type Accommodation struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Rating        float64  `json:"rating"`
	PricePerNight int64    `json:"price_per_night"`
	TotalPrice    int64    `json:"total_price"`
	ImageURL      string   `json:"image_url"`
	Amenities     []string `json:"amenities"`
	Location      string   `json:"location"`
	BookingURL    string   `json:"booking_url"`
}

// Transport is a single leg of getting to, from, or around the destination.
type Transport struct {
	ID         string        `json:"id"`
	Type       TransportType `json:"type"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Provider   string        `json:"provider"`
	Cost       int64         `json:"cost"`
	Duration   string        `json:"duration"`
	BookingURL string        `json:"booking_url"`
}

// Itinerary is the aggregate produced by the assembler and mutated only
// through the ledger methods in ledger.go.
//
// Invariant: TotalCost == Σ Days[i].TotalCost + Accommodation.TotalPrice + Σ Transport[j].Cost
type Itinerary struct {
	ID               uuid.UUID      `json:"id"`
	Destination      string         `json:"destination"`
	Duration         int            `json:"duration"`
	Budget           Budget         `json:"budget"`
	GroupType        GroupType      `json:"group_type"`
	Days             []ItineraryDay `json:"days"`
	Accommodation    Accommodation  `json:"accommodation"`
	Transport        []Transport    `json:"transport"`
	TotalCost        int64          `json:"total_cost"`
	CreatedAt        time.Time      `json:"created_at"`
	DestinationImage string         `json:"destination_image"`
}

// Input reconstructs the TripInput the itinerary was planned from.
func (it *Itinerary) Input() TripInput {
	return TripInput{
		Destination: it.Destination,
		Duration:    it.Duration,
		Budget:      it.Budget,
		GroupType:   it.GroupType,
	}
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing slices with the working copy.
func (it *Itinerary) Clone() Itinerary {
	out := *it
	out.Days = make([]ItineraryDay, len(it.Days))
	for i, d := range it.Days {
		d.Activities = append([]Activity(nil), d.Activities...)
		out.Days[i] = d
	}
	out.Accommodation.Amenities = append([]string(nil), it.Accommodation.Amenities...)
	out.Transport = append([]Transport(nil), it.Transport...)
	return out
}

// ActivityNames returns the names of every scheduled activity in day order.
func (it *Itinerary) ActivityNames() []string {
	var names []string
	for _, d := range it.Days {
		for _, a := range d.Activities {
			names = append(names, a.Name)
		}
	}
	return names
}
