// Package domain contains the core data types for the trip planner.
// It depends only on uuid and is imported by every other internal package
// (catalog, assembler, repo, service, handler).
package domain

import (
	"fmt"
	"strings"
)

// MaxDuration caps the number of days a single itinerary may span.
const MaxDuration = 30

// Budget is the spending tier requested by the traveler.
type Budget string

const (
	BudgetCheap    Budget = "cheap"
	BudgetModerate Budget = "moderate"
	BudgetLuxury   Budget = "luxury"
)

// Valid reports whether b is one of the known tiers.
func (b Budget) Valid() bool {
	switch b {
	case BudgetCheap, BudgetModerate, BudgetLuxury:
		return true
	}
	return false
}

// Describe returns the phrase used when asking a language model for a plan.
func (b Budget) Describe() string {
	switch b {
	case BudgetCheap:
		return "budget-friendly (under $100/day)"
	case BudgetLuxury:
		return "luxury ($300+/day)"
	default:
		return "mid-range ($100-300/day)"
	}
}

// CabinClass is the flight class searched for this tier.
func (b Budget) CabinClass() CabinClass {
	if b == BudgetLuxury {
		return CabinBusiness
	}
	return CabinEconomy
}

// GroupType describes who is traveling.
type GroupType string

const (
	GroupSolo    GroupType = "solo"
	GroupCouple  GroupType = "couple"
	GroupFriends GroupType = "friends"
	GroupFamily  GroupType = "family"
)

// Valid reports whether g is one of the known group types.
func (g GroupType) Valid() bool {
	switch g {
	case GroupSolo, GroupCouple, GroupFriends, GroupFamily:
		return true
	}
	return false
}

func (g GroupType) Describe() string {
	switch g {
	case GroupSolo:
		return "solo traveler"
	case GroupCouple:
		return "romantic couple"
	case GroupFriends:
		return "group of friends"
	default:
		return "family with children"
	}
}

// PartySize is the number of passengers and guests used for catalog searches.
func (g GroupType) PartySize() int {
	switch g {
	case GroupSolo:
		return 1
	case GroupCouple:
		return 2
	default:
		return 4
	}
}

// TripInput is the request to plan a trip. It is immutable once validated.
type TripInput struct {
	Destination string    `json:"destination"`
	Duration    int       `json:"duration"`
	Budget      Budget    `json:"budget"`
	GroupType   GroupType `json:"group_type"`
}

// Normalize returns a copy with surrounding whitespace removed from the destination.
func (in TripInput) Normalize() TripInput {
	in.Destination = strings.TrimSpace(in.Destination)
	return in
}

// Key is the lookup key for destination-indexed tables.
func (in TripInput) Key() string {
	return strings.ToLower(strings.TrimSpace(in.Destination))
}

// Validate enforces the business rules for a TripInput.
//   - Destination must be non-empty after trimming.
//   - Duration must be between 1 and MaxDuration days.
//   - Budget and GroupType must be known values.
func (in TripInput) Validate() error {
	if strings.TrimSpace(in.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if in.Duration < 1 || in.Duration > MaxDuration {
		return fmt.Errorf("%w: duration must be between 1 and %d days", ErrValidation, MaxDuration)
	}
	if !in.Budget.Valid() {
		return fmt.Errorf("%w: unknown budget %q", ErrValidation, in.Budget)
	}
	if !in.GroupType.Valid() {
		return fmt.Errorf("%w: unknown group type %q", ErrValidation, in.GroupType)
	}
	return nil
}
