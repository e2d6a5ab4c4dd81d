package domain

import "fmt"

// The ledger methods below are the only sanctioned way to change the priced
// parts of an Itinerary after assembly. Each one validates everything first
// and mutates only when it is going to succeed, so a failed call leaves the
// itinerary exactly as it was.

// PartsTotal returns Σ day totals + accommodation total + Σ transport costs.
func (it *Itinerary) PartsTotal() int64 {
	var sum int64
	for _, d := range it.Days {
		sum += d.TotalCost
	}
	sum += it.Accommodation.TotalPrice
	for _, t := range it.Transport {
		sum += t.Cost
	}
	return sum
}

// Consistent reports whether every day total matches its activities and
// TotalCost matches the sum of the parts.
func (it *Itinerary) Consistent() bool {
	for _, d := range it.Days {
		if d.TotalCost != d.SumActivities() {
			return false
		}
	}
	return it.TotalCost == it.PartsTotal()
}

// Reconcile recomputes every day total and then TotalCost from the parts.
func (it *Itinerary) Reconcile() {
	for i := range it.Days {
		it.Days[i].TotalCost = it.Days[i].SumActivities()
	}
	it.TotalCost = it.PartsTotal()
}

// ReplaceTransportLeg swaps the leg at index for leg and adjusts TotalCost
// by the cost difference.
func (it *Itinerary) ReplaceTransportLeg(index int, leg Transport) error {
	if index < 0 || index >= len(it.Transport) {
		return fmt.Errorf("domain.Itinerary.ReplaceTransportLeg: %w: leg %d of %d", ErrIndexOutOfRange, index, len(it.Transport))
	}
	if leg.Cost < 0 {
		return fmt.Errorf("domain.Itinerary.ReplaceTransportLeg: %w: cost must not be negative", ErrValidation)
	}
	old := it.Transport[index]
	it.TotalCost += leg.Cost - old.Cost
	it.Transport[index] = leg
	return nil
}

// ReplaceAccommodation swaps the accommodation and adjusts TotalCost by the
// difference in TotalPrice. The supplied TotalPrice is trusted as-is.
func (it *Itinerary) ReplaceAccommodation(acc Accommodation) error {
	if acc.TotalPrice < 0 || acc.PricePerNight < 0 {
		return fmt.Errorf("domain.Itinerary.ReplaceAccommodation: %w: price must not be negative", ErrValidation)
	}
	it.TotalCost += acc.TotalPrice - it.Accommodation.TotalPrice
	it.Accommodation = acc
	return nil
}

// AddActivity appends activity to the day at dayIndex (0-based).
// Returns ErrDuplicateActivity if an activity with the same ID is already
// scheduled on any day; the itinerary is left untouched in that case.
func (it *Itinerary) AddActivity(activity Activity, dayIndex int) error {
	if it.HasActivity(activity.ID) {
		return fmt.Errorf("domain.Itinerary.AddActivity: %w: %s", ErrDuplicateActivity, activity.ID)
	}
	if dayIndex < 0 || dayIndex >= len(it.Days) {
		return fmt.Errorf("domain.Itinerary.AddActivity: %w: day %d of %d", ErrIndexOutOfRange, dayIndex, len(it.Days))
	}
	if activity.Cost < 0 {
		return fmt.Errorf("domain.Itinerary.AddActivity: %w: cost must not be negative", ErrValidation)
	}
	day := &it.Days[dayIndex]
	day.Activities = append(day.Activities, activity)
	day.TotalCost += activity.Cost
	it.TotalCost += activity.Cost
	return nil
}

// HasActivity reports whether an activity with id is scheduled on any day.
func (it *Itinerary) HasActivity(id string) bool {
	for _, d := range it.Days {
		for _, a := range d.Activities {
			if a.ID == id {
				return true
			}
		}
	}
	return false
}
