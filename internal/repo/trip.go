// Package repo contains the persistence gateway for saved trips.
// Each resource has its own file with an interface and a Postgres
// implementation; local.go holds the file-backed store used without an account.
// No business logic lives here, only storage and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripplanner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds dynamic queries with Postgres $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const tripColumns = "id, owner_id, name, destination, itinerary, is_public, created_at, updated_at"

// TripRepo defines the persistence operations for saved trips.
type TripRepo interface {
	// Create stores a new trip and returns it with id and created_at populated.
	Create(ctx context.Context, trip domain.SavedTrip) (domain.SavedTrip, error)

	// GetByID returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.SavedTrip, error)

	// List returns the owner's trips, newest first, narrowed by f.Destination
	// (case-insensitive substring) and paginated.
	List(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error)

	// Update overwrites name, destination and itinerary and stamps updated_at.
	Update(ctx context.Context, trip domain.SavedTrip) (domain.SavedTrip, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// SetVisibility marks a trip public or private.
	SetVisibility(ctx context.Context, id uuid.UUID, public bool) (domain.SavedTrip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.SavedTrip) (domain.SavedTrip, error) {
	const q = `
		INSERT INTO saved_trips (owner_id, name, destination, itinerary, is_public)
		VALUES (@owner_id, @name, @destination, @itinerary, @is_public)
		RETURNING ` + tripColumns

	doc, err := json.Marshal(trip.Itinerary)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("repo.TripRepo.Create: encode itinerary: %w", err)
	}

	args := pgx.NamedArgs{
		"owner_id":    trip.OwnerID,
		"name":        trip.Name,
		"destination": trip.Destination,
		"itinerary":   doc,
		"is_public":   trip.IsPublic,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.SavedTrip{}, mapError("repo.TripRepo.Create", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.SavedTrip, error) {
	const q = `SELECT ` + tripColumns + ` FROM saved_trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.SavedTrip{}, mapError("repo.TripRepo.GetByID", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error) {
	where := sq.And{sq.Eq{"owner_id": f.OwnerID}}
	if d := strings.TrimSpace(f.Destination); d != "" {
		where = append(where, sq.ILike{"destination": "%" + escapeLike(d) + "%"})
	}

	countQ := psql.Select("count(*)").From("saved_trips").Where(where)
	listQ := psql.Select(tripColumns).From("saved_trips").Where(where).
		OrderBy("created_at DESC", "id").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset()))

	page, err := queryPage(ctx, r.db, countQ, listQ)
	if err != nil {
		return domain.Page[domain.SavedTrip]{}, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return page, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.SavedTrip) (domain.SavedTrip, error) {
	const q = `
		UPDATE saved_trips
		SET name        = @name,
		    destination = @destination,
		    itinerary   = @itinerary,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	doc, err := json.Marshal(trip.Itinerary)
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("repo.TripRepo.Update: encode itinerary: %w", err)
	}

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"name":        trip.Name,
		"destination": trip.Destination,
		"itinerary":   doc,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.SavedTrip{}, mapError("repo.TripRepo.Update", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM saved_trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return mapError("repo.TripRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) SetVisibility(ctx context.Context, id uuid.UUID, public bool) (domain.SavedTrip, error) {
	const q = `
		UPDATE saved_trips
		SET is_public  = @is_public,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "is_public": public}))
	if err != nil {
		return domain.SavedTrip{}, mapError("repo.TripRepo.SetVisibility", err)
	}
	return result, nil
}

// queryPage runs a count query and a list query built from the same filter.
func queryPage(ctx context.Context, db db, countQ, listQ sq.SelectBuilder) (domain.Page[domain.SavedTrip], error) {
	var page domain.Page[domain.SavedTrip]

	sql, args, err := countQ.ToSql()
	if err != nil {
		return page, fmt.Errorf("build count: %w", err)
	}
	if err := db.QueryRow(ctx, sql, args...).Scan(&page.Total); err != nil {
		return page, mapError("count", err)
	}

	sql, args, err = listQ.ToSql()
	if err != nil {
		return page, fmt.Errorf("build list: %w", err)
	}
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return page, mapError("query", err)
	}
	defer rows.Close()

	page.Items = []domain.SavedTrip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return page, fmt.Errorf("scan: %w", err)
		}
		page.Items = append(page.Items, t)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("rows: %w", err)
	}
	return page, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single row selected with tripColumns into a domain.SavedTrip.
func scanTrip(s scanner) (domain.SavedTrip, error) {
	var (
		t         domain.SavedTrip
		id, owner pgtype.UUID
		doc       []byte
		updatedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &owner, &t.Name, &t.Destination, &doc, &t.IsPublic, &t.CreatedAt, &updatedAt)
	if err != nil {
		return domain.SavedTrip{}, err
	}
	if err := json.Unmarshal(doc, &t.Itinerary); err != nil {
		return domain.SavedTrip{}, fmt.Errorf("decode itinerary: %w", err)
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	if updatedAt.Valid {
		ts := updatedAt.Time
		t.UpdatedAt = &ts
	}
	return t, nil
}

// escapeLike escapes the LIKE wildcards in s so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
