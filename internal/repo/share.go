package repo

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripplanner/internal/domain"
)

// ShareRepo persists trip shares. Recipients are identified by lowercase email.
type ShareRepo interface {
	// Create grants or replaces a recipient's permission on a trip.
	// Returns domain.ErrNotFound if the trip does not exist.
	Create(ctx context.Context, s domain.Share) (domain.Share, error)

	// ListSharedWith returns trips shared with email, newest first.
	ListSharedWith(ctx context.Context, email string, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error)

	// Permission returns the recipient's permission on a trip, or
	// domain.ErrNotFound when the trip is not shared with them.
	Permission(ctx context.Context, tripID uuid.UUID, email string) (domain.Permission, error)
}

type pgShareRepo struct {
	db db
}

// NewShareRepo constructs a ShareRepo backed by the provided db connection.
func NewShareRepo(db db) ShareRepo {
	return &pgShareRepo{db: db}
}

func (r *pgShareRepo) Create(ctx context.Context, s domain.Share) (domain.Share, error) {
	const q = `
		INSERT INTO trip_shares (trip_id, shared_by, recipient_email, permission)
		VALUES (@trip_id, @shared_by, @recipient_email, @permission)
		ON CONFLICT (trip_id, recipient_email)
		DO UPDATE SET permission = EXCLUDED.permission, shared_by = EXCLUDED.shared_by
		RETURNING trip_id, shared_by, recipient_email, permission, created_at`

	args := pgx.NamedArgs{
		"trip_id":         s.TripID,
		"shared_by":       s.SharedBy,
		"recipient_email": strings.ToLower(s.RecipientEmail),
		"permission":      string(s.Permission),
	}

	var out domain.Share
	err := r.db.QueryRow(ctx, q, args).Scan(&out.TripID, &out.SharedBy, &out.RecipientEmail, &out.Permission, &out.CreatedAt)
	if err != nil {
		return domain.Share{}, mapError("repo.ShareRepo.Create", err)
	}
	return out, nil
}

func (r *pgShareRepo) ListSharedWith(ctx context.Context, email string, p domain.PaginationParams) (domain.Page[domain.SavedTrip], error) {
	where := sq.Eq{"s.recipient_email": strings.ToLower(email)}

	countQ := psql.Select("count(*)").
		From("trip_shares s").
		Join("saved_trips t ON t.id = s.trip_id").
		Where(where)
	listQ := psql.Select(qualified("t", tripColumns)).
		From("trip_shares s").
		Join("saved_trips t ON t.id = s.trip_id").
		Where(where).
		OrderBy("t.created_at DESC", "t.id").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset()))

	page, err := queryPage(ctx, r.db, countQ, listQ)
	if err != nil {
		return domain.Page[domain.SavedTrip]{}, fmt.Errorf("repo.ShareRepo.ListSharedWith: %w", err)
	}
	return page, nil
}

func (r *pgShareRepo) Permission(ctx context.Context, tripID uuid.UUID, email string) (domain.Permission, error) {
	const q = `
		SELECT permission FROM trip_shares
		WHERE trip_id = @trip_id AND recipient_email = @email`

	var perm domain.Permission
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "email": strings.ToLower(email)}).Scan(&perm)
	if err != nil {
		return "", mapError("repo.ShareRepo.Permission", err)
	}
	return perm, nil
}

// qualified prefixes every column in a comma-separated list with alias.
func qualified(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
