package domain

import "github.com/google/uuid"

// LiveFailureMessage is shown when a live-data fetch group fails.
const LiveFailureMessage = "Failed to fetch live travel data. Please try again."

// Draft is an itinerary being edited before it is saved, together with the
// live offers the traveller can swap into it.
type Draft struct {
	ID          uuid.UUID  `json:"id"`
	Input       TripInput  `json:"input"`
	Itinerary   Itinerary  `json:"itinerary"`
	Source      Source     `json:"source"`
	Live        LiveData   `json:"live"`
	SavedTripID *uuid.UUID `json:"saved_trip_id,omitempty"` // set when reopened for editing
}
