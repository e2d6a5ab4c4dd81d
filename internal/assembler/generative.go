package assembler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pkordes/tripplanner/internal/catalog"
	"github.com/pkordes/tripplanner/internal/domain"
)

// aiPlan is the JSON shape requested from the model. Costs are decoded as
// floats because models routinely emit fractional prices.
type aiPlan struct {
	Destination   string          `json:"destination"`
	Duration      int             `json:"duration"`
	Days          []aiDay         `json:"days"`
	Accommodation aiAccommodation `json:"accommodation"`
	Transport     []aiTransport   `json:"transport"`
	TotalCost     float64         `json:"totalCost"`
}

type aiAccommodation struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Rating        float64  `json:"rating"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	Location      string   `json:"location"`
}

type aiTransport struct {
	Type     string  `json:"type"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Provider string  `json:"provider"`
	Cost     float64 `json:"cost"`
	Duration string  `json:"duration"`
}

type aiDay struct {
	Day        int          `json:"day"`
	Date       string       `json:"date"`
	Activities []aiActivity `json:"activities"`
}

type aiActivity struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Time        string  `json:"time"`
	Duration    string  `json:"duration"`
	Cost        float64 `json:"cost"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
}

func itineraryPrompt(in domain.TripInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed %d-day trip itinerary for %s with the following requirements:\n\n", in.Duration, in.Destination)
	fmt.Fprintf(&b, "- Budget: %s\n- Group type: %s\n- Duration: %d days\n\n", in.Budget.Describe(), in.GroupType.Describe(), in.Duration)
	b.WriteString("Respond with a single JSON object with this structure:\n")
	fmt.Fprintf(&b, `{
  "destination": %q,
  "duration": %d,
  "budget": %q,
  "groupType": %q,
  "days": [
    {
      "day": 1,
      "date": "Day 1",
      "activities": [
        {"name": "Activity Name", "description": "Detailed description", "time": "09:00",
         "duration": "2 hours", "cost": 25, "location": "Specific location", "category": "sightseeing"}
      ]
    }
  ],
  "accommodation": {"name": "Hotel Name", "type": "Hotel Type", "rating": 4.5, "pricePerNight": 150,
                    "amenities": ["Free WiFi"], "location": "Hotel location"},
  "transport": [
    {"type": "flight", "from": "Origin", "to": %q, "provider": "Airline", "cost": 500, "duration": "8h 30m"}
  ],
  "totalCost": 1500
}
`, in.Destination, in.Duration, in.Budget, in.GroupType, in.Destination)
	fmt.Fprintf(&b, `
Requirements:
- Exactly %d entries in "days"
- 3-5 activities per day, mixing categories: sightseeing, food, activity, shopping, culture
- Realistic non-negative costs in USD
- Transport types: flight, train, bus, car, local
- totalCost is the sum of all activity costs, pricePerNight times %d, and all transport costs
`, in.Duration, in.Duration)
	return b.String()
}

// stripFences removes a Markdown code fence around the payload, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decodePlan(raw string) (aiPlan, error) {
	var p aiPlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &p); err != nil {
		return aiPlan{}, fmt.Errorf("decode reply: %w", err)
	}
	return p, nil
}

// maxCost bounds any single price the model reports so converted totals
// stay well inside int64.
const maxCost = 1e9

func validCost(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0 && f <= maxCost
}

func (p aiPlan) validate(duration int) error {
	if len(p.Days) != duration {
		return fmt.Errorf("expected %d days, got %d", duration, len(p.Days))
	}
	for i, d := range p.Days {
		if len(d.Activities) == 0 {
			return fmt.Errorf("day %d has no activities", i+1)
		}
		for _, act := range d.Activities {
			if strings.TrimSpace(act.Name) == "" {
				return fmt.Errorf("day %d has an unnamed activity", i+1)
			}
			if !validCost(act.Cost) {
				return fmt.Errorf("activity %q has an invalid cost", act.Name)
			}
		}
	}
	if strings.TrimSpace(p.Accommodation.Name) == "" {
		return errors.New("accommodation name is missing")
	}
	if !validCost(p.Accommodation.PricePerNight) {
		return errors.New("accommodation price is out of range")
	}
	if len(p.Transport) == 0 {
		return errors.New("no transport legs")
	}
	for _, t := range p.Transport {
		if !validCost(t.Cost) {
			return fmt.Errorf("transport %q has an invalid cost", t.Provider)
		}
	}
	return nil
}

func money(f float64) int64 {
	return int64(math.Round(f))
}

func normalizeCategory(s string) domain.Category {
	c := domain.Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return domain.CategorySightseeing
}

func normalizeTransport(s string) domain.TransportType {
	t := domain.TransportType(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return domain.TransportLocal
}

func (a *Assembler) activityFrom(act aiActivity, defaultTime string) domain.Activity {
	cat := normalizeCategory(act.Category)
	t := strings.TrimSpace(act.Time)
	if t == "" {
		t = defaultTime
	}
	return domain.Activity{
		ID:          a.newID().String(),
		Name:        strings.TrimSpace(act.Name),
		Description: act.Description,
		Time:        t,
		Duration:    act.Duration,
		Cost:        money(act.Cost),
		Location:    act.Location,
		ImageURL:    catalog.CategoryImage(cat),
		Category:    cat,
	}
}

func (a *Assembler) convert(ctx context.Context, p aiPlan, in domain.TripInput) Result {
	now := a.now()
	days := make([]domain.ItineraryDay, len(p.Days))
	for i, d := range p.Days {
		acts := make([]domain.Activity, len(d.Activities))
		for j, act := range d.Activities {
			acts[j] = a.activityFrom(act, "09:00")
		}
		days[i] = domain.ItineraryDay{
			Day:        i + 1,
			Date:       now.AddDate(0, 0, i).Format(DateLabelLayout),
			Activities: acts,
		}
	}

	ppn := money(p.Accommodation.PricePerNight)
	acc := domain.Accommodation{
		ID:            a.newID().String(),
		Name:          strings.TrimSpace(p.Accommodation.Name),
		Type:          p.Accommodation.Type,
		Rating:        p.Accommodation.Rating,
		PricePerNight: ppn,
		TotalPrice:    ppn * int64(in.Duration),
		ImageURL:      catalog.HotelImage(),
		Amenities:     p.Accommodation.Amenities,
		Location:      p.Accommodation.Location,
		BookingURL:    "#",
	}

	legs := make([]domain.Transport, len(p.Transport))
	for i, t := range p.Transport {
		legs[i] = domain.Transport{
			ID:         a.newID().String(),
			Type:       normalizeTransport(t.Type),
			From:       t.From,
			To:         t.To,
			Provider:   t.Provider,
			Cost:       money(t.Cost),
			Duration:   t.Duration,
			BookingURL: "#",
		}
	}

	it := domain.Itinerary{
		ID:               a.newID(),
		Destination:      in.Destination,
		Duration:         in.Duration,
		Budget:           in.Budget,
		GroupType:        in.GroupType,
		Days:             days,
		Accommodation:    acc,
		Transport:        legs,
		CreatedAt:        now,
		DestinationImage: catalog.DestinationImage(in.Key()),
	}
	it.Reconcile()

	if reported := money(p.TotalCost); reported != it.TotalCost {
		a.log.InfoContext(ctx, "generated total disagrees with its parts, using computed total",
			"reported", reported,
			"computed", it.TotalCost,
		)
	}
	return Result{Itinerary: it}
}

// suggestionCount is how many activities SuggestActivities asks for.
const suggestionCount = 6

// SuggestActivities asks the model for activities not already in exclude.
// Any failure, including a missing generator, yields an empty list.
func (a *Assembler) SuggestActivities(ctx context.Context, in domain.TripInput, exclude []string) []domain.Activity {
	if a.gen == nil {
		return []domain.Activity{}
	}
	prompt := fmt.Sprintf(`Suggest %d unique activities for %s that are:
- Suitable for %s travelers
- %s budget level
- Not including: %s

Respond with a JSON array of objects with the fields
"name", "description", "duration", "cost", "location", "category".
Categories: sightseeing, food, activity, shopping, culture`,
		suggestionCount, in.Destination, in.GroupType.Describe(), in.Budget.Describe(), strings.Join(exclude, ", "))

	resp, err := a.gen.GenerateContent(ctx, prompt)
	if err != nil {
		a.log.WarnContext(ctx, "activity suggestions failed", "error", err)
		return []domain.Activity{}
	}
	var raw []aiActivity
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &raw); err != nil {
		a.log.WarnContext(ctx, "activity suggestions unreadable", "error", err)
		return []domain.Activity{}
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[strings.ToLower(strings.TrimSpace(name))] = true
	}
	out := make([]domain.Activity, 0, len(raw))
	for _, r := range raw {
		name := strings.ToLower(strings.TrimSpace(r.Name))
		if name == "" || skip[name] || r.Cost < 0 {
			continue
		}
		skip[name] = true
		out = append(out, a.activityFrom(r, domain.DefaultActivityTime))
	}
	return out
}
