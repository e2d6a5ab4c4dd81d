package handler

import (
	"net/http"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
)

// maxForecastDays bounds a weather request.
const maxForecastDays = domain.MaxDuration

type flightSearchRequest struct {
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	DepartureDate openapi_types.Date  `json:"departure_date"`
	ReturnDate    *openapi_types.Date `json:"return_date,omitempty"`
	Passengers    int                 `json:"passengers"`
	Class         domain.CabinClass   `json:"class"`
}

type hotelSearchRequest struct {
	Destination string             `json:"destination"`
	CheckIn     openapi_types.Date `json:"check_in"`
	CheckOut    openapi_types.Date `json:"check_out"`
	Guests      int                `json:"guests"`
	Rooms       int                `json:"rooms"`
	Budget      domain.Budget      `json:"budget"`
}

type weatherRequest struct {
	Destination string               `json:"destination"`
	Dates       []openapi_types.Date `json:"dates"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Data: items}
}

// SearchFlights handles POST /search/flights.
func (s *Server) SearchFlights(w http.ResponseWriter, r *http.Request) {
	var req flightSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := requireDestination(req.Destination); msg != "" {
		requestError(w, msg)
		return
	}
	if req.DepartureDate.IsZero() {
		requestError(w, "departure_date is required")
		return
	}
	search := domain.FlightSearch{
		Origin:        strings.TrimSpace(req.Origin),
		Destination:   strings.TrimSpace(req.Destination),
		DepartureDate: req.DepartureDate.Time,
		Passengers:    max(req.Passengers, 1),
		Class:         req.Class,
	}
	if search.Origin == "" {
		search.Origin = s.origin
	}
	if search.Class == "" {
		search.Class = domain.CabinEconomy
	}
	if !search.Class.Valid() {
		requestError(w, "unknown class")
		return
	}
	if req.ReturnDate != nil {
		if req.ReturnDate.Before(req.DepartureDate.Time) {
			requestError(w, "return_date must not be before departure_date")
			return
		}
		ret := req.ReturnDate.Time
		search.ReturnDate = &ret
	}

	offers, err := s.catalog.SearchFlights(r.Context(), search)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newList(offers))
}

// SearchHotels handles POST /search/hotels.
func (s *Server) SearchHotels(w http.ResponseWriter, r *http.Request) {
	var req hotelSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := requireDestination(req.Destination); msg != "" {
		requestError(w, msg)
		return
	}
	if !req.CheckOut.After(req.CheckIn.Time) {
		requestError(w, "check_out must be after check_in")
		return
	}
	if req.Budget == "" {
		req.Budget = domain.BudgetModerate
	}
	if !req.Budget.Valid() {
		requestError(w, "unknown budget")
		return
	}

	offers, err := s.catalog.SearchHotels(r.Context(), domain.HotelSearch{
		Destination: strings.TrimSpace(req.Destination),
		CheckIn:     req.CheckIn.Time,
		CheckOut:    req.CheckOut.Time,
		Guests:      max(req.Guests, 1),
		Rooms:       max(req.Rooms, 1),
		Budget:      req.Budget,
	})
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newList(offers))
}

// SearchActivities handles POST /search/activities.
func (s *Server) SearchActivities(w http.ResponseWriter, r *http.Request) {
	var req domain.ActivitySearch
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := requireDestination(req.Destination); msg != "" {
		requestError(w, msg)
		return
	}
	if req.Category != "" && !req.Category.Valid() {
		requestError(w, "unknown category")
		return
	}
	if req.Budget == "" {
		req.Budget = domain.BudgetModerate
	}
	if req.GroupType == "" {
		req.GroupType = domain.GroupSolo
	}
	if !req.Budget.Valid() || !req.GroupType.Valid() {
		requestError(w, "unknown budget or group type")
		return
	}
	req.Destination = strings.TrimSpace(req.Destination)

	offers, err := s.catalog.SearchActivities(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newList(offers))
}

// SearchWeather handles POST /search/weather.
func (s *Server) SearchWeather(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := requireDestination(req.Destination); msg != "" {
		requestError(w, msg)
		return
	}
	if len(req.Dates) == 0 || len(req.Dates) > maxForecastDays {
		requestError(w, "dates must list between 1 and 30 days")
		return
	}
	dates := make([]time.Time, len(req.Dates))
	for i, d := range req.Dates {
		dates[i] = d.Time
	}

	forecast, err := s.catalog.GetWeatherForecast(r.Context(), strings.TrimSpace(req.Destination), dates)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newList(forecast))
}

func requireDestination(d string) string {
	if strings.TrimSpace(d) == "" {
		return "destination is required"
	}
	return ""
}
