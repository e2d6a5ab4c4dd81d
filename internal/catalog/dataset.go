// Package catalog holds the static per-destination tables the assembler
// draws from and the simulated live travel catalog used for searches.
package catalog

import "github.com/pkordes/tripplanner/internal/domain"

// DefaultDestination is used whenever a requested destination has no
// complete dataset.
const DefaultDestination = "paris"

const hotelImage = "https://images.pexels.com/photos/271618/pexels-photo-271618.jpeg?auto=compress&cs=tinysrgb&w=800"

// Dataset is the static material for one destination.
type Dataset struct {
	Activities     []domain.Activity
	Accommodations map[domain.Budget]domain.Accommodation
	Transport      []domain.Transport
}

// Complete reports whether the dataset can produce an itinerary for budget:
// it needs activities, an accommodation for the tier, and transport.
func (d Dataset) Complete(budget domain.Budget) bool {
	_, ok := d.Accommodations[budget]
	return len(d.Activities) > 0 && ok && len(d.Transport) > 0
}

// Tables maps lower-cased destination keys to datasets.
type Tables map[string]Dataset

// Lookup returns the dataset for key, if any.
func (t Tables) Lookup(key string) (Dataset, bool) {
	d, ok := t[key]
	return d, ok
}

// Resolve returns the dataset for key when it is complete for budget,
// otherwise the default destination's dataset.
func (t Tables) Resolve(key string, budget domain.Budget) Dataset {
	if d, ok := t[key]; ok && d.Complete(budget) {
		return d
	}
	return t[DefaultDestination]
}

var destinationImages = map[string]string{
	"paris":    "https://images.pexels.com/photos/161853/paris-landmark-lights-night-161853.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	"tokyo":    "https://images.pexels.com/photos/2614818/pexels-photo-2614818.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	"new york": "https://images.pexels.com/photos/290386/pexels-photo-290386.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	"london":   "https://images.pexels.com/photos/460672/pexels-photo-460672.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	"rome":     "https://images.pexels.com/photos/2064827/pexels-photo-2064827.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	"bali":     "https://images.pexels.com/photos/2166559/pexels-photo-2166559.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
}

const defaultDestinationImage = "https://images.pexels.com/photos/1371360/pexels-photo-1371360.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1"

// DestinationImage returns the hero image for key, or a generic one.
func DestinationImage(key string) string {
	if img, ok := destinationImages[key]; ok {
		return img
	}
	return defaultDestinationImage
}

var categoryImages = map[domain.Category]string{
	domain.CategorySightseeing: "https://images.pexels.com/photos/1371360/pexels-photo-1371360.jpeg?auto=compress&cs=tinysrgb&w=800",
	domain.CategoryFood:        "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg?auto=compress&cs=tinysrgb&w=800",
	domain.CategoryActivity:    "https://images.pexels.com/photos/2506923/pexels-photo-2506923.jpeg?auto=compress&cs=tinysrgb&w=800",
	domain.CategoryShopping:    "https://images.pexels.com/photos/264636/pexels-photo-264636.jpeg?auto=compress&cs=tinysrgb&w=800",
	domain.CategoryCulture:     "https://images.pexels.com/photos/1707820/pexels-photo-1707820.jpeg?auto=compress&cs=tinysrgb&w=800",
}

// CategoryImage returns the stock image for an activity category.
// Unknown categories get the sightseeing image.
func CategoryImage(c domain.Category) string {
	if img, ok := categoryImages[c]; ok {
		return img
	}
	return categoryImages[domain.CategorySightseeing]
}

// HotelImage is the stock image used for accommodations without their own.
func HotelImage() string { return hotelImage }

// DefaultTables returns the built-in datasets. Accommodation TotalPrice is
// left at zero: the assembler prices the stay for the requested duration.
func DefaultTables() Tables {
	return Tables{
		"paris": {
			Activities: []domain.Activity{
				{
					ID: "1", Name: "Eiffel Tower Visit",
					Description: "Iconic iron lattice tower and symbol of Paris",
					Time:        "09:00", Duration: "2 hours", Cost: 29,
					Location: "Champ de Mars, 7th arrondissement",
					ImageURL: "https://images.pexels.com/photos/161853/paris-landmark-lights-night-161853.jpeg?auto=compress&cs=tinysrgb&w=800",
					Category: domain.CategorySightseeing,
				},
				{
					ID: "2", Name: "Louvre Museum",
					Description: "World's largest art museum and historic monument",
					Time:        "14:00", Duration: "3 hours", Cost: 17,
					Location: "Rue de Rivoli, 1st arrondissement",
					ImageURL: "https://images.pexels.com/photos/2675266/pexels-photo-2675266.jpeg?auto=compress&cs=tinysrgb&w=800",
					Category: domain.CategoryCulture,
				},
				{
					ID: "3", Name: "Seine River Cruise",
					Description: "Romantic cruise along the Seine with city views",
					Time:        "18:00", Duration: "1.5 hours", Cost: 15,
					Location: "Port de la Bourdonnais",
					ImageURL: "https://images.pexels.com/photos/1461974/pexels-photo-1461974.jpeg?auto=compress&cs=tinysrgb&w=800",
					Category: domain.CategoryActivity,
				},
			},
			Accommodations: map[domain.Budget]domain.Accommodation{
				domain.BudgetCheap: {
					ID: "1", Name: "Hotel des Grands Boulevards", Type: "Boutique Hotel", Rating: 4.2,
					PricePerNight: 120, ImageURL: hotelImage,
					Amenities:  []string{"Free WiFi", "Continental Breakfast", "24/7 Reception"},
					Location:   "17 Boulevard Poissonnière, 2nd arrondissement",
					BookingURL: "#",
				},
				domain.BudgetModerate: {
					ID: "2", Name: "Hotel Malte Opera", Type: "Luxury Hotel", Rating: 4.6,
					PricePerNight: 280, ImageURL: hotelImage,
					Amenities:  []string{"Spa", "Fine Dining", "Concierge", "Room Service"},
					Location:   "63 Rue de Richelieu, 2nd arrondissement",
					BookingURL: "#",
				},
				domain.BudgetLuxury: {
					ID: "3", Name: "The Ritz Paris", Type: "Luxury Palace", Rating: 4.9,
					PricePerNight: 750, ImageURL: hotelImage,
					Amenities:  []string{"Michelin Star Restaurant", "Spa", "Butler Service", "Champagne Bar"},
					Location:   "15 Place Vendôme, 1st arrondissement",
					BookingURL: "#",
				},
			},
			Transport: []domain.Transport{
				{ID: "1", Type: domain.TransportFlight, From: "JFK", To: "CDG", Provider: "Air France", Cost: 650, Duration: "8h 30m", BookingURL: "#"},
				{ID: "2", Type: domain.TransportLocal, From: "CDG Airport", To: "City Center", Provider: "RER B Train", Cost: 12, Duration: "45m", BookingURL: "#"},
			},
		},
		"tokyo": {
			Activities: []domain.Activity{
				{
					ID: "4", Name: "Senso-ji Temple",
					Description: "Ancient Buddhist temple in historic Asakusa district",
					Time:        "09:00", Duration: "2 hours", Cost: 0,
					Location: "Asakusa, Taito City",
					ImageURL: "https://images.pexels.com/photos/161251/senso-ji-temple-asakusa-tokyo-japan-161251.jpeg?auto=compress&cs=tinysrgb&w=800",
					Category: domain.CategoryCulture,
				},
				{
					ID: "5", Name: "Tsukiji Outer Market",
					Description: "Famous fish market with incredible sushi and seafood",
					Time:        "06:00", Duration: "3 hours", Cost: 25,
					Location: "Tsukiji, Chuo City",
					ImageURL: "https://images.pexels.com/photos/4331491/pexels-photo-4331491.jpeg?auto=compress&cs=tinysrgb&w=800",
					Category: domain.CategoryFood,
				},
				{
					ID: "6", Name: "Shibuya Crossing",
					Description: "World's busiest pedestrian crossing",
					Time:        "16:00", Duration: "1 hour", Cost: 0,
					Location: "Shibuya, Tokyo",
					ImageURL: "https://images.pexels.com/photos/2506923/pexels-photo-2506923.jpeg?auto=compress&cs=tinysrgb&w=800",
					Category: domain.CategorySightseeing,
				},
			},
			Accommodations: map[domain.Budget]domain.Accommodation{
				domain.BudgetCheap: {
					ID: "4", Name: "Capsule Hotel Anshin Oyado", Type: "Capsule Hotel", Rating: 4.0,
					PricePerNight: 45, ImageURL: hotelImage,
					Amenities: []string{"Free WiFi", "Shared Bath", "Lockers"},
					Location:  "Shinjuku, Tokyo", BookingURL: "#",
				},
				domain.BudgetModerate: {
					ID: "5", Name: "Hotel Gracery Shinjuku", Type: "Business Hotel", Rating: 4.4,
					PricePerNight: 150, ImageURL: hotelImage,
					Amenities: []string{"Restaurant", "Business Center", "Fitness Center"},
					Location:  "1-19-1 Kabukicho, Shinjuku", BookingURL: "#",
				},
				domain.BudgetLuxury: {
					ID: "6", Name: "The Peninsula Tokyo", Type: "Luxury Hotel", Rating: 4.8,
					PricePerNight: 600, ImageURL: hotelImage,
					Amenities: []string{"Michelin Star Restaurant", "Spa", "Personal Butler", "Helicopter Transfers"},
					Location:  "1-8-1 Yurakucho, Chiyoda", BookingURL: "#",
				},
			},
			Transport: []domain.Transport{
				{ID: "3", Type: domain.TransportFlight, From: "LAX", To: "NRT", Provider: "Japan Airlines", Cost: 850, Duration: "11h 45m", BookingURL: "#"},
				{ID: "4", Type: domain.TransportLocal, From: "Narita Airport", To: "Shinjuku", Provider: "Narita Express", Cost: 35, Duration: "1h 15m", BookingURL: "#"},
			},
		},
	}
}
