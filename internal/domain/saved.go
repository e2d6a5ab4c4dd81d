package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SavedTrip is an itinerary persisted by the PersistenceGateway.
// OwnerID is uuid.Nil in anonymous (local store) mode.
type SavedTrip struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Destination string     `json:"destination"`
	Itinerary   Itinerary  `json:"itinerary"`
	IsPublic    bool       `json:"is_public"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"` // nil until first update
}

// Permission is what a share recipient may do with a trip.
type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// Share grants a recipient, identified by email, access to a trip.
type Share struct {
	TripID         uuid.UUID  `json:"trip_id"`
	SharedBy       uuid.UUID  `json:"shared_by"`
	RecipientEmail string     `json:"recipient_email"`
	Permission     Permission `json:"permission"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Validate normalizes and checks the recipient email and permission.
// An empty permission defaults to view.
func (s *Share) Validate() error {
	addr, err := mail.ParseAddress(strings.TrimSpace(s.RecipientEmail))
	if err != nil {
		return fmt.Errorf("%w: recipient email is invalid", ErrValidation)
	}
	s.RecipientEmail = strings.ToLower(addr.Address)
	if s.Permission == "" {
		s.Permission = PermissionView
	}
	if !s.Permission.Valid() {
		return fmt.Errorf("%w: unknown permission %q", ErrValidation, s.Permission)
	}
	return nil
}

// TripFilter narrows a saved-trip listing. An empty Destination matches all.
type TripFilter struct {
	OwnerID     uuid.UUID
	Destination string
}

// Identity is the caller on whose behalf a service method runs.
// The zero value is the anonymous local user.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Anonymous reports whether the identity carries no account.
func (id Identity) Anonymous() bool {
	return id.UserID == uuid.Nil
}

// Source records which assembly path produced an itinerary.
type Source string

const (
	SourceAI      Source = "ai"
	SourceCatalog Source = "catalog"
	SourceSaved   Source = "saved" // reopened from a saved trip
)
