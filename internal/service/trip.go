// Package service contains the business logic of the trip planner.
// Services validate inputs, enforce ownership and sharing rules, and
// orchestrate the assembler, live data and persistence. No SQL lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
)

// maxTripNameLen bounds saved trip names.
const maxTripNameLen = 200

// DraftStore is the part of PlannerService that saved trips need.
type DraftStore interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Draft, error)
	Open(ctx context.Context, trip domain.SavedTrip) (domain.Draft, error)
}

// access is what a caller may do with a saved trip, in increasing order.
type access int

const (
	accessNone access = iota
	accessView
	accessEdit
	accessOwner
)

// SavedTripService implements saving, listing, sharing and publishing trips.
type SavedTripService struct {
	trips  repo.TripRepo
	shares repo.ShareRepo
	drafts DraftStore
}

// NewSavedTripService constructs a SavedTripService.
func NewSavedTripService(trips repo.TripRepo, shares repo.ShareRepo, drafts DraftStore) *SavedTripService {
	return &SavedTripService{trips: trips, shares: shares, drafts: drafts}
}

// Save persists the draft's itinerary for the caller. An empty name becomes
// "Trip to <destination>".
func (s *SavedTripService) Save(ctx context.Context, caller domain.Identity, name string, draftID uuid.UUID) (domain.SavedTrip, error) {
	it, err := s.draftItinerary(ctx, draftID)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.Save: %w", err)
	}
	name, err = tripName(name, it.Destination)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.Save: %w", err)
	}

	created, err := s.trips.Create(ctx, domain.SavedTrip{
		OwnerID:     caller.UserID,
		Name:        name,
		Destination: it.Destination,
		Itinerary:   it,
	})
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.Save: %w", err)
	}
	return created, nil
}

// List returns the caller's own trips.
func (s *SavedTripService) List(ctx context.Context, caller domain.Identity, destination string, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error) {
	page, err := s.trips.List(ctx, domain.TripFilter{OwnerID: caller.UserID, Destination: destination}, p)
	if err != nil {
		return domain.Page[domain.SavedTrip]{}, fmt.Errorf("service.SavedTripService.List: %w", err)
	}
	return page, nil
}

// ListShared returns trips other users shared with the caller's email.
func (s *SavedTripService) ListShared(ctx context.Context, caller domain.Identity, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error) {
	if caller.Email == "" {
		return domain.Page[domain.SavedTrip]{Items: []domain.SavedTrip{}}, nil
	}
	page, err := s.shares.ListSharedWith(ctx, caller.Email, p)
	if err != nil {
		return domain.Page[domain.SavedTrip]{}, fmt.Errorf("service.SavedTripService.ListShared: %w", err)
	}
	return page, nil
}

// Get returns a trip the caller owns, was shared, or that is public.
// Trips the caller cannot see are reported as not found.
func (s *SavedTripService) Get(ctx context.Context, caller domain.Identity, id uuid.UUID) (domain.SavedTrip, error) {
	t, _, err := s.load(ctx, caller, id, accessView)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.Get: %w", err)
	}
	return t, nil
}

// GetPublic returns a trip only if it has been made public.
func (s *SavedTripService) GetPublic(ctx context.Context, id uuid.UUID) (domain.SavedTrip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.GetPublic: %w", err)
	}
	if !t.IsPublic {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.GetPublic: %w", domain.ErrNotFound)
	}
	return t, nil
}

// Update replaces a trip's itinerary with the draft's. The owner and editors
// may update; an empty name keeps the current one.
func (s *SavedTripService) Update(ctx context.Context, caller domain.Identity, id uuid.UUID, name string, draftID uuid.UUID) (domain.SavedTrip, error) {
	t, _, err := s.load(ctx, caller, id, accessEdit)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.Update: %w", err)
	}
	it, err := s.draftItinerary(ctx, draftID)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.Update: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = t.Name
	}
	if t.Name, err = tripName(name, it.Destination); err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.Update: %w", err)
	}
	t.Itinerary = it
	t.Destination = it.Destination

	updated, err := s.trips.Update(ctx, t)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.Update: %w", err)
	}
	return updated, nil
}

// Edit opens a trip as a new draft. Requires edit access.
func (s *SavedTripService) Edit(ctx context.Context, caller domain.Identity, id uuid.UUID) (domain.Draft, error) {
	t, _, err := s.load(ctx, caller, id, accessEdit)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service.SavedTripService.Edit: %w", err)
	}
	d, err := s.drafts.Open(ctx, t)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service.SavedTripService.Edit: %w", err)
	}
	return d, nil
}

// Delete removes a trip. Owner only.
func (s *SavedTripService) Delete(ctx context.Context, caller domain.Identity, id uuid.UUID) error {
	if _, _, err := s.load(ctx, caller, id, accessOwner); err != nil {
		return fmt.Errorf("service.SavedTripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.SavedTripService.Delete: %w", err)
	}
	return nil
}

// Share grants recipient access to a trip. Owner only; sharing with the
// caller's own email is rejected.
func (s *SavedTripService) Share(ctx context.Context, caller domain.Identity, id uuid.UUID, recipient string, perm domain.Permission) (domain.Share, error) {
	if _, _, err := s.load(ctx, caller, id, accessOwner); err != nil {
		return domain.Share{}, fmt.Errorf("service.SavedTripService.Share: %w", err)
	}
	share := domain.Share{TripID: id, SharedBy: caller.UserID, RecipientEmail: recipient, Permission: perm}
	if err := share.Validate(); err != nil {
		return domain.Share{}, fmt.Errorf("service.SavedTripService.Share: %w", err)
	}
	if caller.Email != "" && strings.EqualFold(share.RecipientEmail, caller.Email) {
		return domain.Share{}, fmt.Errorf("service.SavedTripService.Share: %w: cannot share a trip with yourself", domain.ErrValidation)
	}

	created, err := s.shares.Create(ctx, share)
	if err != nil {
		return domain.Share{}, fmt.Errorf("service.SavedTripService.Share: %w", err)
	}
	return created, nil
}

// SetVisibility makes a trip public or private. Owner only.
func (s *SavedTripService) SetVisibility(ctx context.Context, caller domain.Identity, id uuid.UUID, public bool) (domain.SavedTrip, error) {
	if _, _, err := s.load(ctx, caller, id, accessOwner); err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.SetVisibility: %w", err)
	}
	t, err := s.trips.SetVisibility(ctx, id, public)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("service.SavedTripService.SetVisibility: %w", err)
	}
	return t, nil
}

// load fetches a trip and checks the caller has at least want access.
// Invisible trips are ErrNotFound; visible ones with too little access are
// ErrForbidden.
func (s *SavedTripService) load(ctx context.Context, caller domain.Identity, id uuid.UUID, want access) (domain.SavedTrip, access, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.SavedTrip{}, accessNone, err
	}
	got, err := s.accessTo(ctx, caller, t)
	if err != nil {
		return domain.SavedTrip{}, accessNone, err
	}
	switch {
	case got == accessNone:
		return domain.SavedTrip{}, accessNone, domain.ErrNotFound
	case got < want:
		return domain.SavedTrip{}, got, domain.ErrForbidden
	}
	return t, got, nil
}

func (s *SavedTripService) accessTo(ctx context.Context, caller domain.Identity, t domain.SavedTrip) (access, error) {
	if t.OwnerID == caller.UserID {
		return accessOwner, nil
	}
	level := accessNone
	if t.IsPublic {
		level = accessView
	}
	if caller.Anonymous() || caller.Email == "" {
		return level, nil
	}

	perm, err := s.shares.Permission(ctx, t.ID, caller.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return level, nil
	case err != nil:
		return accessNone, err
	case perm == domain.PermissionEdit:
		return accessEdit, nil
	default:
		return max(level, accessView), nil
	}
}

// draftItinerary returns the draft's itinerary if its totals are consistent.
func (s *SavedTripService) draftItinerary(ctx context.Context, draftID uuid.UUID) (domain.Itinerary, error) {
	d, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return domain.Itinerary{}, err
	}
	if !d.Itinerary.Consistent() {
		return domain.Itinerary{}, fmt.Errorf("%w: itinerary totals do not add up", domain.ErrValidation)
	}
	return d.Itinerary, nil
}

func tripName(name, destination string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Trip to " + destination
	}
	if len(name) > maxTripNameLen {
		return "", fmt.Errorf("%w: name must be at most %d characters", domain.ErrValidation, maxTripNameLen)
	}
	return name, nil
}
