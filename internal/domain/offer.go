package domain

import "time"

// CabinClass is the flight class requested from the catalog.
type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinBusiness CabinClass = "business"
	CabinFirst    CabinClass = "first"
)

// Valid reports whether c is a known cabin class.
func (c CabinClass) Valid() bool {
	switch c {
	case CabinEconomy, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

// OfferKind tags the variants of Offer.
type OfferKind string

const (
	OfferFlight   OfferKind = "flight"
	OfferHotel    OfferKind = "hotel"
	OfferActivity OfferKind = "activity"
)

// PricedItem holds the fields every catalog offer shares.
type PricedItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	BookingURL string `json:"booking_url"`
}

// Offer is a selectable catalog result. The concrete types are FlightOffer,
// HotelOffer and ActivityOffer; consumers resolve them with a type switch.
type Offer interface {
	Kind() OfferKind
	Item() PricedItem
}

// FlightEndpoint is one end of a flight.
type FlightEndpoint struct {
	Airport string `json:"airport"`
	Time    string `json:"time"`
	Date    string `json:"date"`
}

// FlightOffer is a flight returned by a flight search. Name holds the airline.
type FlightOffer struct {
	PricedItem
	FlightNumber string         `json:"flight_number"`
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
	Duration     string         `json:"duration"`
	Stops        int            `json:"stops"`
}

func (f FlightOffer) Kind() OfferKind  { return OfferFlight }
func (f FlightOffer) Item() PricedItem { return f.PricedItem }

// AsTransport converts the offer into a flight leg priced at the offer price.
func (f FlightOffer) AsTransport() Transport {
	return Transport{
		ID:         f.ID,
		Type:       TransportFlight,
		From:       f.Departure.Airport,
		To:         f.Arrival.Airport,
		Provider:   f.Name,
		Cost:       f.Price,
		Duration:   f.Duration,
		BookingURL: f.BookingURL,
	}
}

// HotelOffer is a hotel returned by a hotel search. Price is the nightly rate;
// TotalPrice covers every night of the searched stay.
type HotelOffer struct {
	PricedItem
	Rating       float64  `json:"rating"`
	TotalPrice   int64    `json:"total_price"`
	Nights       int      `json:"nights"`
	ImageURL     string   `json:"image_url"`
	Amenities    []string `json:"amenities"`
	Location     string   `json:"location"`
	Distance     string   `json:"distance"`
	Cancellation string   `json:"cancellation"`
}

func (h HotelOffer) Kind() OfferKind  { return OfferHotel }
func (h HotelOffer) Item() PricedItem { return h.PricedItem }

func (h HotelOffer) AsAccommodation() Accommodation {
	return Accommodation{
		ID:            h.ID,
		Name:          h.Name,
		Type:          "Hotel",
		Rating:        h.Rating,
		PricePerNight: h.Price,
		TotalPrice:    h.TotalPrice,
		ImageURL:      h.ImageURL,
		Amenities:     append([]string(nil), h.Amenities...),
		Location:      h.Location,
		BookingURL:    h.BookingURL,
	}
}

// ActivityOffer is an activity returned by an activity search.
type ActivityOffer struct {
	PricedItem
	Description  string   `json:"description"`
	Duration     string   `json:"duration"`
	Category     Category `json:"category"`
	Rating       float64  `json:"rating"`
	ImageURL     string   `json:"image_url"`
	Location     string   `json:"location"`
	Availability string   `json:"availability"`
}

func (a ActivityOffer) Kind() OfferKind  { return OfferActivity }
func (a ActivityOffer) Item() PricedItem { return a.PricedItem }

// DefaultActivityTime is the slot given to activities added from a search.
const DefaultActivityTime = "14:00"

func (a ActivityOffer) AsActivity() Activity {
	return Activity{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Time:        DefaultActivityTime,
		Duration:    a.Duration,
		Cost:        a.Price,
		Location:    a.Location,
		ImageURL:    a.ImageURL,
		Category:    a.Category,
		BookingURL:  a.BookingURL,
	}
}

// FlightSearch parameterizes a flight search.
type FlightSearch struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate time.Time  `json:"departure_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Passengers    int        `json:"passengers"`
	Class         CabinClass `json:"class"`
}

// HotelSearch parameterizes a hotel search. Nights is CheckOut - CheckIn in days.
type HotelSearch struct {
	Destination string    `json:"destination"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	Guests      int       `json:"guests"`
	Rooms       int       `json:"rooms"`
	Budget      Budget    `json:"budget"`
}

// Nights returns the number of nights between check-in and check-out,
// rounding partial days up.
func (s HotelSearch) Nights() int {
	d := s.CheckOut.Sub(s.CheckIn)
	if d < 0 {
		d = -d
	}
	n := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		n++
	}
	return n
}

// ActivitySearch parameterizes an activity search.
type ActivitySearch struct {
	Destination string    `json:"destination"`
	Category    Category  `json:"category,omitempty"`
	Budget      Budget    `json:"budget"`
	GroupType   GroupType `json:"group_type"`
}

// Condition is a coarse weather description.
type Condition string

const (
	ConditionSunny        Condition = "sunny"
	ConditionPartlyCloudy Condition = "partly-cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionRainy        Condition = "rainy"
)

// Forecast is the weather outlook for one trip day.
type Forecast struct {
	Date      string    `json:"date"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Condition Condition `json:"condition"`
	Humidity  float64   `json:"humidity"`
	WindSpeed float64   `json:"wind_speed"`
}

// LiveStatus is the state of a live-data fetch group.
type LiveStatus string

const (
	LiveLoading LiveStatus = "loading"
	LiveReady   LiveStatus = "ready"
	LiveFailed  LiveStatus = "failed"
)

// LiveData is the result of fetching all four catalog searches for a draft.
// Lists are populated only when Status is LiveReady.
type LiveData struct {
	Status     LiveStatus      `json:"status"`
	Flights    []FlightOffer   `json:"flights"`
	Hotels     []HotelOffer    `json:"hotels"`
	Activities []ActivityOffer `json:"activities"`
	Weather    []Forecast      `json:"weather"`
	Error      string          `json:"error,omitempty"`
	FetchedAt  *time.Time      `json:"fetched_at,omitempty"`
}

// Find returns the offer with id from any of the three offer lists.
func (l LiveData) Find(id string) (Offer, bool) {
	for _, f := range l.Flights {
		if f.ID == id {
			return f, true
		}
	}
	for _, h := range l.Hotels {
		if h.ID == id {
			return h, true
		}
	}
	for _, a := range l.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}
