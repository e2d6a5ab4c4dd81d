package domain

import "fmt"

// CostLineKind groups rows in a cost breakdown.
type CostLineKind string

const (
	LineActivity      CostLineKind = "activity"
	LineAccommodation CostLineKind = "accommodation"
	LineTransport     CostLineKind = "transport"
	LineTotal         CostLineKind = "total"
)

// CostLine is a single row of a cost breakdown export: one per activity,
// one for the accommodation, one per transport leg, then a total row.
// Day is zero for rows that do not belong to a specific day.
type CostLine struct {
	Kind   CostLineKind `json:"kind"`
	Day    int          `json:"day,omitempty"`
	Label  string       `json:"label"`
	Detail string       `json:"detail,omitempty"`
	Amount int64        `json:"amount"`
}

// CostBreakdown flattens an itinerary into cost lines. The amounts of every
// non-total row sum to the total row when the itinerary is consistent.
func CostBreakdown(it Itinerary) []CostLine {
	lines := make([]CostLine, 0, len(it.Transport)+2)
	for _, d := range it.Days {
		for _, a := range d.Activities {
			lines = append(lines, CostLine{
				Kind:   LineActivity,
				Day:    d.Day,
				Label:  a.Name,
				Detail: a.Time + " " + a.Location,
				Amount: a.Cost,
			})
		}
	}
	lines = append(lines, CostLine{
		Kind:   LineAccommodation,
		Label:  it.Accommodation.Name,
		Detail: fmt.Sprintf("%d nights x %d", it.Duration, it.Accommodation.PricePerNight),
		Amount: it.Accommodation.TotalPrice,
	})
	for _, t := range it.Transport {
		lines = append(lines, CostLine{
			Kind:   LineTransport,
			Label:  t.Provider,
			Detail: t.From + " -> " + t.To,
			Amount: t.Cost,
		})
	}
	lines = append(lines, CostLine{Kind: LineTotal, Label: "Total", Amount: it.TotalCost})
	return lines
}
