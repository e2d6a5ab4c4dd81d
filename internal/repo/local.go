package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// errAccountRequired is returned by operations the local store cannot serve.
var errAccountRequired = fmt.Errorf("%w: sharing requires an account", domain.ErrValidation)

// LocalTripRepo stores each trip as <id>.json in a directory. It is used when
// no database is configured; every trip belongs to the anonymous owner.
type LocalTripRepo struct {
	dir string
	mu  sync.RWMutex
	now func() time.Time
}

var _ TripRepo = (*LocalTripRepo)(nil)

// NewLocalTripRepo creates the directory if needed and returns a store over it.
func NewLocalTripRepo(dir string) (*LocalTripRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repo.NewLocalTripRepo: create %s: %w", dir, err)
	}
	return &LocalTripRepo{dir: dir, now: time.Now}, nil
}

func (r *LocalTripRepo) path(id uuid.UUID) string {
	return filepath.Join(r.dir, id.String()+".json")
}

func (r *LocalTripRepo) Create(_ context.Context, trip domain.SavedTrip) (domain.SavedTrip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip.ID = uuid.New()
	trip.OwnerID = uuid.Nil
	trip.IsPublic = false
	trip.CreatedAt = r.now().UTC()
	trip.UpdatedAt = nil
	if err := r.write(trip); err != nil {
		return domain.SavedTrip{}, fmt.Errorf("repo.LocalTripRepo.Create: %w", err)
	}
	return trip, nil
}

func (r *LocalTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.SavedTrip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, err := r.read(r.path(id))
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("repo.LocalTripRepo.GetByID: %w", err)
	}
	return t, nil
}

func (r *LocalTripRepo) List(_ context.Context, f domain.TripFilter, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return domain.Page[domain.SavedTrip]{}, fmt.Errorf("repo.LocalTripRepo.List: glob: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(f.Destination))
	var all []domain.SavedTrip
	for _, path := range paths {
		t, err := r.read(path)
		if err != nil {
			return domain.Page[domain.SavedTrip]{}, fmt.Errorf("repo.LocalTripRepo.List: %w", err)
		}
		if t.OwnerID != f.OwnerID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Destination), needle) {
			continue
		}
		all = append(all, t)
	}

	slices.SortFunc(all, func(a, b domain.SavedTrip) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	start, end := p.Window(len(all))
	items := append([]domain.SavedTrip{}, all[start:end]...)
	return domain.Page[domain.SavedTrip]{Items: items, Total: int64(len(all))}, nil
}

func (r *LocalTripRepo) Update(_ context.Context, trip domain.SavedTrip) (domain.SavedTrip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.read(r.path(trip.ID))
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("repo.LocalTripRepo.Update: %w", err)
	}
	now := r.now().UTC()
	current.Name = trip.Name
	current.Destination = trip.Destination
	current.Itinerary = trip.Itinerary
	current.UpdatedAt = &now
	if err := r.write(current); err != nil {
		return domain.SavedTrip{}, fmt.Errorf("repo.LocalTripRepo.Update: %w", err)
	}
	return current, nil
}

func (r *LocalTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("repo.LocalTripRepo.Delete: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.LocalTripRepo.Delete: %w", err)
	}
	return nil
}

// SetVisibility is not available without an account.
func (r *LocalTripRepo) SetVisibility(context.Context, uuid.UUID, bool) (domain.SavedTrip, error) {
	return domain.SavedTrip{}, fmt.Errorf("repo.LocalTripRepo.SetVisibility: %w", errAccountRequired)
}

// write replaces the trip's file atomically via a temp file and rename.
func (r *LocalTripRepo) write(t domain.SavedTrip) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode trip: %w", err)
	}
	tmp, err := os.CreateTemp(r.dir, ".trip-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write trip file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close trip file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path(t.ID)); err != nil {
		return fmt.Errorf("rename trip file: %w", err)
	}
	return nil
}

func (r *LocalTripRepo) read(path string) (domain.SavedTrip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SavedTrip{}, domain.ErrNotFound
		}
		return domain.SavedTrip{}, fmt.Errorf("read trip file: %w", err)
	}
	var t domain.SavedTrip
	if err := json.Unmarshal(data, &t); err != nil {
		return domain.SavedTrip{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// LocalShareRepo is the ShareRepo used alongside LocalTripRepo. Nothing is
// ever shared, so listings are empty and grants are rejected.
type LocalShareRepo struct{}

var _ ShareRepo = LocalShareRepo{}

func (LocalShareRepo) Create(context.Context, domain.Share) (domain.Share, error) {
	return domain.Share{}, fmt.Errorf("repo.LocalShareRepo.Create: %w", errAccountRequired)
}

func (LocalShareRepo) ListSharedWith(context.Context, string, domain.PaginationParams) (domain.Page[domain.SavedTrip], error) {
	return domain.Page[domain.SavedTrip]{Items: []domain.SavedTrip{}}, nil
}

func (LocalShareRepo) Permission(context.Context, uuid.UUID, string) (domain.Permission, error) {
	return "", fmt.Errorf("repo.LocalShareRepo.Permission: %w", domain.ErrNotFound)
}
