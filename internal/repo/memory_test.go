package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

func newMemoryStore() *repo.MemoryStore {
	return repo.NewMemoryStore([]domain.Destination{
		destinationFixture("Paris, France", "city", 1200),
		destinationFixture("Tokyo, Japan", "city", 1800),
		destinationFixture("Bali, Indonesia", "beach", 950),
	})
}

func TestMemoryStore_FindPaged(t *testing.T) {
	store := newMemoryStore()

	got, err := store.Destinations().FindPaged(context.Background(), domain.Filter{
		Search: "par", PriceMax: 2000, Page: 1, Limit: 10,
	})

	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Paris, France", got.Items[0].Name)
	assert.NotEqual(t, uuid.Nil, got.Items[0].ID, "seeds get an ID")
}

func TestMemoryStore_FindPaged_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newMemoryStore().Destinations().FindPaged(ctx, domain.Filter{PriceMax: 1, Page: 1, Limit: 1})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_Reviews(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	page, err := store.Destinations().FindPaged(ctx, domain.Filter{Search: "paris", PriceMax: 10000, Page: 1, Limit: 1})
	require.NoError(t, err)
	paris := page.Items[0]

	_, d, err := store.Reviews().Add(ctx, reviewFixture(paris.ID, 4, "first"))
	require.NoError(t, err)
	assert.Equal(t, 157, d.TotalReviews)
	assert.InDelta(t, (4.8*156+4)/157, d.Rating, 1e-12)

	_, _, err = store.Reviews().Add(ctx, reviewFixture(paris.ID, 5, "second"))
	require.NoError(t, err)

	list, err := store.Reviews().ListByDestination(ctx, paris.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Comment)

	_, _, err = store.Reviews().Add(ctx, reviewFixture(uuid.New(), 5, "lost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	empty, err := store.Reviews().ListByDestination(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
}

func TestMemoryStore_Bookings(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	me := uuid.New()
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	b, err := store.Bookings().Create(ctx, bookingFixture(me, uuid.New(), start))
	require.NoError(t, err)
	_, err = store.Bookings().Create(ctx, bookingFixture(me, uuid.New(), start.AddDate(0, 2, 0)))
	require.NoError(t, err)

	list, err := store.Bookings().ListByUser(ctx, me)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].StartDate.After(list[1].StartDate))

	got, err := store.Bookings().UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	_, err = store.Bookings().UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingCancelled)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = store.Bookings().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
