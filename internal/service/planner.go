package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pkordes/tripplanner/internal/domain"
)

// ItineraryPlanner builds itineraries and activity suggestions.
// *assembler.Assembler satisfies it.
type ItineraryPlanner interface {
	Plan(ctx context.Context, input domain.TripInput) (domain.Itinerary, domain.Source, error)
	Suggest(ctx context.Context, in domain.TripInput, exclude []string) ([]domain.Activity, domain.Source)
}

// LiveFetcher loads the live offers for a trip as one group.
// *livedata.Loader satisfies it.
type LiveFetcher interface {
	Fetch(ctx context.Context, in domain.TripInput) (domain.LiveData, error)
}

// draftState is one draft plus the bookkeeping for its live-data fetch.
// Every field is guarded by mu.
type draftState struct {
	mu         sync.Mutex
	draft      domain.Draft
	generation uint64
	cancel     context.CancelFunc
}

// snapshot returns a copy of the draft that shares no mutable state with it.
// Caller holds mu.
func (st *draftState) snapshot() domain.Draft {
	d := st.draft
	d.Itinerary = st.draft.Itinerary.Clone()
	return d
}

// PlannerService owns the in-memory drafts and applies ledger operations to
// them. Drafts expire after a period without use.
type PlannerService struct {
	planner ItineraryPlanner
	loader  LiveFetcher
	drafts  *expirable.LRU[uuid.UUID, *draftState]
	log     *slog.Logger

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewPlannerService returns a PlannerService holding at most capacity drafts,
// each kept for ttl after its last use.
func NewPlannerService(planner ItineraryPlanner, loader LiveFetcher, capacity int, ttl time.Duration, log *slog.Logger) *PlannerService {
	base, stop := context.WithCancel(context.Background())
	s := &PlannerService{planner: planner, loader: loader, log: log, base: base, stop: stop}
	s.drafts = expirable.NewLRU[uuid.UUID, *draftState](capacity, func(_ uuid.UUID, st *draftState) {
		st.mu.Lock()
		defer st.mu.Unlock()
		if st.cancel != nil {
			st.cancel()
		}
	}, ttl)
	return s
}

// Close cancels every in-flight live-data fetch and waits for them to finish.
func (s *PlannerService) Close() {
	s.stop()
	s.wg.Wait()
}

// Plan assembles an itinerary for input, stores it as a new draft and starts
// loading live offers for it in the background.
func (s *PlannerService) Plan(ctx context.Context, input domain.TripInput) (domain.Draft, error) {
	it, source, err := s.planner.Plan(ctx, input)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service.PlannerService.Plan: %w", err)
	}
	return s.create(domain.Draft{Input: input.Normalize(), Itinerary: it, Source: source}), nil
}

// Open starts a draft from a saved trip so it can be edited and saved again.
func (s *PlannerService) Open(_ context.Context, trip domain.SavedTrip) (domain.Draft, error) {
	if !trip.Itinerary.Consistent() {
		return domain.Draft{}, fmt.Errorf("service.PlannerService.Open: %w: saved itinerary totals do not add up", domain.ErrValidation)
	}
	id := trip.ID
	return s.create(domain.Draft{
		Input:       trip.Itinerary.Input(),
		Itinerary:   trip.Itinerary.Clone(),
		Source:      domain.SourceSaved,
		SavedTripID: &id,
	}), nil
}

func (s *PlannerService) create(d domain.Draft) domain.Draft {
	d.ID = uuid.New()
	st := &draftState{draft: d}

	st.mu.Lock()
	s.startFetch(st)
	snap := st.snapshot()
	st.mu.Unlock()

	s.drafts.Add(d.ID, st)
	return snap
}

// Get returns a snapshot of the draft.
func (s *PlannerService) Get(_ context.Context, id uuid.UUID) (domain.Draft, error) {
	st, err := s.get(id)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service.PlannerService.Get: %w", err)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot(), nil
}

// Discard drops the draft and cancels its live-data fetch.
func (s *PlannerService) Discard(_ context.Context, id uuid.UUID) error {
	if !s.drafts.Remove(id) {
		return fmt.Errorf("service.PlannerService.Discard: %w", domain.ErrNotFound)
	}
	return nil
}

// Replan replaces the draft's itinerary with a new one for input. Live data
// for the previous input is discarded when it arrives. When two replans race,
// the one started last wins.
func (s *PlannerService) Replan(ctx context.Context, id uuid.UUID, input domain.TripInput) (domain.Draft, error) {
	if err := input.Validate(); err != nil {
		return domain.Draft{}, fmt.Errorf("service.PlannerService.Replan: %w", err)
	}
	st, err := s.get(id)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service.PlannerService.Replan: %w", err)
	}

	st.mu.Lock()
	st.generation++
	gen := st.generation
	st.mu.Unlock()

	it, source, err := s.planner.Plan(ctx, input)

	st.mu.Lock()
	defer st.mu.Unlock()
	if err != nil {
		if st.generation == gen {
			// The bump above orphaned any fetch in flight for the current input.
			s.startFetch(st)
		}
		return domain.Draft{}, fmt.Errorf("service.PlannerService.Replan: %w", err)
	}
	if st.generation != gen {
		s.log.DebugContext(ctx, "discarding superseded replan", "draft_id", id)
		return st.snapshot(), nil
	}
	st.draft.Input = input.Normalize()
	st.draft.Itinerary = it
	st.draft.Source = source
	s.startFetch(st)
	return st.snapshot(), nil
}

// Live returns the draft's live-data state.
func (s *PlannerService) Live(ctx context.Context, id uuid.UUID) (domain.LiveData, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return domain.LiveData{}, fmt.Errorf("service.PlannerService.Live: %w", err)
	}
	return d.Live, nil
}

// RefreshLive restarts the live-data fetch for the draft's current input.
func (s *PlannerService) RefreshLive(_ context.Context, id uuid.UUID) (domain.LiveData, error) {
	st, err := s.get(id)
	if err != nil {
		return domain.LiveData{}, fmt.Errorf("service.PlannerService.RefreshLive: %w", err)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s.startFetch(st)
	return st.draft.Live, nil
}

// startFetch marks live data as loading and fetches it in the background.
// A result is applied only if no newer fetch or replan started meanwhile.
// Caller holds st.mu.
func (s *PlannerService) startFetch(st *draftState) {
	if st.cancel != nil {
		st.cancel()
	}
	st.generation++
	gen := st.generation
	ctx, cancel := context.WithCancel(s.base)
	st.cancel = cancel
	st.draft.Live = domain.LiveData{Status: domain.LiveLoading}
	input := st.draft.Input
	id := st.draft.ID

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		live, err := s.loader.Fetch(ctx, input)
		s.deliver(st, gen, id, live, err)
	}()
}

func (s *PlannerService) deliver(st *draftState, gen uint64, id uuid.UUID, live domain.LiveData, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.generation != gen {
		s.log.Debug("discarding stale live data", "draft_id", id, "generation", gen, "current", st.generation)
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn("live data fetch failed", "draft_id", id, "error", err)
		}
		st.draft.Live = domain.LiveData{Status: domain.LiveFailed, Error: domain.LiveFailureMessage}
		return
	}
	live.Status = domain.LiveReady
	st.draft.Live = live
}

// SelectFlight replaces transport leg legIndex with the live flight offerID.
func (s *PlannerService) SelectFlight(ctx context.Context, id uuid.UUID, offerID string, legIndex int) (domain.Draft, error) {
	d, _, err := s.apply(ctx, id, offerID, func(st *draftState, offer domain.Offer) (bool, error) {
		f, ok := offer.(domain.FlightOffer)
		if !ok {
			return false, fmt.Errorf("%w: offer %q is not a flight", domain.ErrValidation, offerID)
		}
		return true, st.draft.Itinerary.ReplaceTransportLeg(legIndex, f.AsTransport())
	})
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service.PlannerService.SelectFlight: %w", err)
	}
	return d, nil
}

// SelectHotel replaces the accommodation with the live hotel offerID.
func (s *PlannerService) SelectHotel(ctx context.Context, id uuid.UUID, offerID string) (domain.Draft, error) {
	d, _, err := s.apply(ctx, id, offerID, func(st *draftState, offer domain.Offer) (bool, error) {
		h, ok := offer.(domain.HotelOffer)
		if !ok {
			return false, fmt.Errorf("%w: offer %q is not a hotel", domain.ErrValidation, offerID)
		}
		acc := h.AsAccommodation()
		if want := acc.PricePerNight * int64(st.draft.Itinerary.Duration); acc.TotalPrice != want {
			s.log.WarnContext(ctx, "hotel total disagrees with nightly price",
				"draft_id", id, "offer_id", offerID, "total_price", acc.TotalPrice, "expected", want)
		}
		return true, st.draft.Itinerary.ReplaceAccommodation(acc)
	})
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service.PlannerService.SelectHotel: %w", err)
	}
	return d, nil
}

// AddActivity schedules the live activity offerID on day dayIndex (zero-based).
// added is false when the activity is already on the itinerary.
func (s *PlannerService) AddActivity(ctx context.Context, id uuid.UUID, offerID string, dayIndex int) (d domain.Draft, added bool, err error) {
	d, added, err = s.apply(ctx, id, offerID, func(st *draftState, offer domain.Offer) (bool, error) {
		a, ok := offer.(domain.ActivityOffer)
		if !ok {
			return false, fmt.Errorf("%w: offer %q is not an activity", domain.ErrValidation, offerID)
		}
		err := st.draft.Itinerary.AddActivity(a.AsActivity(), dayIndex)
		if errors.Is(err, domain.ErrDuplicateActivity) {
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		return domain.Draft{}, false, fmt.Errorf("service.PlannerService.AddActivity: %w", err)
	}
	return d, added, nil
}

// apply locates offerID in the draft's ready live data and runs op under the
// draft's lock. The ledger methods validate before mutating, so a failed op
// leaves the itinerary untouched.
func (s *PlannerService) apply(_ context.Context, id uuid.UUID, offerID string, op func(*draftState, domain.Offer) (bool, error)) (domain.Draft, bool, error) {
	st, err := s.get(id)
	if err != nil {
		return domain.Draft{}, false, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	switch st.draft.Live.Status {
	case domain.LiveReady:
	case domain.LiveFailed:
		return domain.Draft{}, false, fmt.Errorf("%w: live data is unavailable, refresh and try again", domain.ErrValidation)
	default:
		return domain.Draft{}, false, fmt.Errorf("%w: live data is still loading", domain.ErrValidation)
	}

	offer, ok := st.draft.Live.Find(offerID)
	if !ok {
		return domain.Draft{}, false, fmt.Errorf("offer %q: %w", offerID, domain.ErrNotFound)
	}
	changed, err := op(st, offer)
	if err != nil {
		return domain.Draft{}, false, err
	}
	return st.snapshot(), changed, nil
}

// Suggestions returns activities for the draft's destination that are not
// already scheduled.
func (s *PlannerService) Suggestions(ctx context.Context, id uuid.UUID) ([]domain.Activity, domain.Source, error) {
	st, err := s.get(id)
	if err != nil {
		return nil, "", fmt.Errorf("service.PlannerService.Suggestions: %w", err)
	}
	st.mu.Lock()
	input := st.draft.Input
	names := st.draft.Itinerary.ActivityNames()
	st.mu.Unlock()

	acts, source := s.planner.Suggest(ctx, input, names)
	return acts, source, nil
}

// get returns the draft state and refreshes its expiry.
func (s *PlannerService) get(id uuid.UUID) (*draftState, error) {
	st, ok := s.drafts.Get(id)
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
	}
	s.drafts.Add(id, st)
	return st, nil
}
