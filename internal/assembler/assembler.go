// Package assembler turns a TripInput into a cost-consistent Itinerary,
// either from the static catalog tables or from a single language model
// completion. The generative path always falls back to the catalog path.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/catalog"
	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/llm"
)

// DateLabelLayout formats the per-day date label.
const DateLabelLayout = "Monday, January 2, 2006"

// activitiesPerDay is the most catalog activities scheduled on one day.
const activitiesPerDay = 3

// Assembler builds itineraries. It is safe for concurrent use.
type Assembler struct {
	tables catalog.Tables
	gen    llm.TextGenerator
	now    func() time.Time
	newID  func() uuid.UUID
	log    *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithGenerator enables the generative path. A nil generator leaves it disabled.
func WithGenerator(g llm.TextGenerator) Option {
	return func(a *Assembler) { a.gen = g }
}

// WithClock overrides the time source used for date labels and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithIDs overrides the itinerary and item id source.
func WithIDs(newID func() uuid.UUID) Option {
	return func(a *Assembler) { a.newID = newID }
}

// New returns an Assembler over tables.
func New(tables catalog.Tables, log *slog.Logger, opts ...Option) *Assembler {
	a := &Assembler{
		tables: tables,
		now:    time.Now,
		newID:  uuid.New,
		log:    log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generative reports whether a text generator is configured.
func (a *Assembler) Generative() bool {
	return a.gen != nil
}

// Assemble builds an itinerary from the catalog tables. It performs no I/O.
//
// Day i gets up to three activities starting at i mod n in the activity pool,
// truncated at the end of the pool. The same input on the same clock and id
// source always yields the same itinerary.
func (a *Assembler) Assemble(input domain.TripInput) (domain.Itinerary, error) {
	if err := input.Validate(); err != nil {
		return domain.Itinerary{}, fmt.Errorf("assembler.Assembler.Assemble: %w", err)
	}
	input = input.Normalize()
	key := input.Key()

	ds := a.tables.Resolve(key, input.Budget)
	pool := ds.Activities
	if len(pool) == 0 {
		return domain.Itinerary{}, fmt.Errorf("assembler.Assembler.Assemble: %w: no activities for %q", domain.ErrCatalogEmpty, key)
	}
	acc, ok := ds.Accommodations[input.Budget]
	if !ok {
		return domain.Itinerary{}, fmt.Errorf("assembler.Assembler.Assemble: %w: no %s accommodation for %q", domain.ErrCatalogEmpty, input.Budget, key)
	}

	now := a.now()
	n := len(pool)
	days := make([]domain.ItineraryDay, input.Duration)
	for i := range days {
		start := i % n
		end := min(start+min(activitiesPerDay, n), n)
		days[i] = domain.ItineraryDay{
			Day:        i + 1,
			Date:       now.AddDate(0, 0, i).Format(DateLabelLayout),
			Activities: append([]domain.Activity(nil), pool[start:end]...),
		}
	}

	acc.Amenities = append([]string(nil), acc.Amenities...)
	acc.TotalPrice = acc.PricePerNight * int64(input.Duration)

	it := domain.Itinerary{
		ID:               a.newID(),
		Destination:      input.Destination,
		Duration:         input.Duration,
		Budget:           input.Budget,
		GroupType:        input.GroupType,
		Days:             days,
		Accommodation:    acc,
		Transport:        append([]domain.Transport(nil), ds.Transport...),
		CreatedAt:        now,
		DestinationImage: catalog.DestinationImage(key),
	}
	it.Reconcile()
	return it, nil
}

// Plan builds an itinerary, trying the generative path first when one is
// configured. Any generative failure is logged and the catalog path is used
// instead; only catalog failures are returned.
func (a *Assembler) Plan(ctx context.Context, input domain.TripInput) (domain.Itinerary, domain.Source, error) {
	if err := input.Validate(); err != nil {
		return domain.Itinerary{}, "", fmt.Errorf("assembler.Assembler.Plan: %w", err)
	}

	if a.gen != nil {
		res := a.Generate(ctx, input.Normalize())
		if res.OK() {
			return res.Itinerary, domain.SourceAI, nil
		}
		a.log.WarnContext(ctx, "generative assembly failed, using catalog",
			"destination", input.Destination,
			"error", res.Err,
		)
	}

	it, err := a.Assemble(input)
	if err != nil {
		return domain.Itinerary{}, "", err
	}
	return it, domain.SourceCatalog, nil
}

// Result is the outcome of the generative path: either an itinerary or the
// reason it could not be produced.
type Result struct {
	Itinerary domain.Itinerary
	Err       error
}

// OK reports whether the result carries a usable itinerary.
func (r Result) OK() bool { return r.Err == nil }

// Generate runs only the generative path. The returned Result wraps
// domain.ErrGenerativeAssembly on any failure.
func (a *Assembler) Generate(ctx context.Context, input domain.TripInput) Result {
	if a.gen == nil {
		return Result{Err: fmt.Errorf("%w: no text generator configured", domain.ErrGenerativeAssembly)}
	}
	resp, err := a.gen.GenerateContent(ctx, itineraryPrompt(input))
	if err != nil {
		return Result{Err: errors.Join(domain.ErrGenerativeAssembly, err)}
	}
	plan, err := decodePlan(resp.Content)
	if err != nil {
		return Result{Err: errors.Join(domain.ErrGenerativeAssembly, err)}
	}
	if err := plan.validate(input.Duration); err != nil {
		return Result{Err: errors.Join(domain.ErrGenerativeAssembly, err)}
	}
	return a.convert(ctx, plan, input)
}

// Suggest returns activities whose names are not in exclude. The model is
// asked first when one is configured; when it yields nothing the
// destination's catalog pool is used.
func (a *Assembler) Suggest(ctx context.Context, in domain.TripInput, exclude []string) ([]domain.Activity, domain.Source) {
	in = in.Normalize()
	if a.gen != nil {
		if got := a.SuggestActivities(ctx, in, exclude); len(got) > 0 {
			return got, domain.SourceAI
		}
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[strings.ToLower(strings.TrimSpace(name))] = true
	}
	out := []domain.Activity{}
	for _, act := range a.tables.Resolve(in.Key(), in.Budget).Activities {
		if !skip[strings.ToLower(act.Name)] {
			out = append(out, act)
		}
	}
	return out, domain.SourceCatalog
}
