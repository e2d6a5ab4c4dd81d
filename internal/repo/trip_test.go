package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
	"github.com/pkordes/tripplanner/testutil"
)

// newTestRepos opens a transaction against the test database and returns
// repos backed by it. The transaction is rolled back when the test finishes.
func newTestRepos(t *testing.T) (repo.TripRepo, repo.ShareRepo) {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewTripRepo(tx), repo.NewShareRepo(tx)
}

func TestTripRepo_Create(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()
	owner := uuid.New()

	input := tripFixture(owner, "Paris")
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, "Trip to Paris", got.Name)
	assert.False(t, got.IsPublic)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.Nil(t, got.UpdatedAt, "UpdatedAt is NULL until the first update")
	assert.Equal(t, input.Itinerary.TotalCost, got.Itinerary.TotalCost)
	assert.True(t, got.Itinerary.Consistent())
}

func TestTripRepo_GetByID(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture(uuid.New(), "Tokyo"))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Itinerary.Days, got.Itinerary.Days)
	assert.Equal(t, created.Itinerary.Accommodation, got.Itinerary.Accommodation)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r, _ := newTestRepos(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_List(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()
	owner := uuid.New()

	for _, dest := range []string{"Paris", "Tokyo", "Paris"} {
		_, err := r.Create(ctx, tripFixture(owner, dest))
		require.NoError(t, err)
	}
	_, err := r.Create(ctx, tripFixture(uuid.New(), "Paris"))
	require.NoError(t, err)

	t.Run("owner only", func(t *testing.T) {
		page, err := r.List(ctx, domain.TripFilter{OwnerID: owner}, domain.NewPaginationParams(nil, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.Total)
		assert.Len(t, page.Items, 3)
	})

	t.Run("destination filter is case-insensitive", func(t *testing.T) {
		page, err := r.List(ctx, domain.TripFilter{OwnerID: owner, Destination: "par"}, domain.NewPaginationParams(nil, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		for _, trip := range page.Items {
			assert.Equal(t, "Paris", trip.Destination)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		pageNo, limit := 2, 2
		page, err := r.List(ctx, domain.TripFilter{OwnerID: owner}, domain.NewPaginationParams(&pageNo, &limit))
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.Total)
		assert.Len(t, page.Items, 1)
	})

	t.Run("wildcards match literally", func(t *testing.T) {
		page, err := r.List(ctx, domain.TripFilter{OwnerID: owner, Destination: "%"}, domain.NewPaginationParams(nil, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 0, page.Total)
		assert.NotNil(t, page.Items)
	})
}

func TestTripRepo_Update(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture(uuid.New(), "Paris"))
	require.NoError(t, err)

	created.Name = "Honeymoon"
	acc := created.Itinerary.Accommodation
	acc.PricePerNight, acc.TotalPrice = 450, 900
	require.NoError(t, created.Itinerary.ReplaceAccommodation(acc))

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Honeymoon", updated.Name)
	assert.Equal(t, created.Itinerary.TotalCost, updated.Itinerary.TotalCost)
	assert.EqualValues(t, 900, updated.Itinerary.Accommodation.TotalPrice)
	require.NotNil(t, updated.UpdatedAt)
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	r, _ := newTestRepos(t)

	ghost := tripFixture(uuid.New(), "Nowhere")
	ghost.ID = uuid.New()

	_, err := r.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture(uuid.New(), "Paris"))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "trip should be gone after delete")
	assert.ErrorIs(t, r.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestTripRepo_SetVisibility(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture(uuid.New(), "Paris"))
	require.NoError(t, err)

	got, err := r.SetVisibility(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)

	got, err = r.SetVisibility(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)

	_, err = r.SetVisibility(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShareRepo(t *testing.T) {
	trips, shares := newTestRepos(t)
	ctx := context.Background()
	owner := uuid.New()

	trip, err := trips.Create(ctx, tripFixture(owner, "Rome"))
	require.NoError(t, err)

	share, err := shares.Create(ctx, domain.Share{
		TripID: trip.ID, SharedBy: owner, RecipientEmail: "Friend@Example.com", Permission: domain.PermissionView,
	})
	require.NoError(t, err)
	assert.Equal(t, "friend@example.com", share.RecipientEmail)

	perm, err := shares.Permission(ctx, trip.ID, "friend@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionView, perm)

	// Sharing again replaces the permission.
	_, err = shares.Create(ctx, domain.Share{
		TripID: trip.ID, SharedBy: owner, RecipientEmail: "friend@example.com", Permission: domain.PermissionEdit,
	})
	require.NoError(t, err)
	perm, err = shares.Permission(ctx, trip.ID, "FRIEND@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionEdit, perm)

	page, err := shares.ListSharedWith(ctx, "friend@example.com", domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, trip.ID, page.Items[0].ID)

	_, err = shares.Permission(ctx, trip.ID, "stranger@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = shares.Create(ctx, domain.Share{
		TripID: uuid.New(), SharedBy: owner, RecipientEmail: "friend@example.com", Permission: domain.PermissionView,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "unknown trip violates the foreign key")
}
