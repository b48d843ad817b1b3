package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/service"
)

// appendLog is an in-memory ItineraryRepo that records every append.
func appendLog() (*mockItineraryRepo, *[]domain.Itinerary) {
	var saved []domain.Itinerary
	m := &mockItineraryRepo{
		append: func(_ context.Context, _ string, it domain.Itinerary) error {
			saved = append(saved, it)
			return nil
		},
		list: func(context.Context, string) ([]domain.Itinerary, error) {
			out := append([]domain.Itinerary{}, saved...)
			return out, nil
		},
	}
	return m, &saved
}

func newItineraryService(r *mockItineraryRepo) *service.ItineraryService {
	svc := service.NewItineraryService(r)
	var n byte
	svc.SetIdentity(
		func() uuid.UUID { n++; return uuid.UUID{15: n} },
		func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) },
	)
	return svc
}

func addParis(t *testing.T, svc *service.ItineraryService, owner string) domain.Draft {
	t.Helper()
	_, err := svc.UpdatePending(owner, domain.StopFields{Name: "Paris", ArrivalDate: "2025-06-01"})
	require.NoError(t, err)
	d, err := svc.AddStop(owner)
	require.NoError(t, err)
	return d
}

func TestItineraryService_DraftStartsEmpty(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})

	d, err := svc.Draft("s1")

	require.NoError(t, err)
	assert.Equal(t, domain.NewDraft(), d)
}

func TestItineraryService_RequiresOwner(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})

	_, err := svc.Draft("")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = svc.Save(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestItineraryService_AddStop_ClearsForm(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})

	d := addParis(t, svc, "s1")

	require.Len(t, d.Itinerary.Stops, 1)
	assert.Equal(t, "Paris", d.Itinerary.Stops[0].Name)
	assert.Equal(t, uuid.UUID{15: 1}, d.Itinerary.Stops[0].ID)
	assert.Equal(t, domain.NewPendingStop(), d.Pending)
}

func TestItineraryService_AddStop_MissingArrivalKeepsDraft(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})
	_, err := svc.UpdatePending("s1", domain.StopFields{Name: "Tokyo"})
	require.NoError(t, err)

	d, err := svc.AddStop("s1")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "arrival_date")
	assert.Empty(t, d.Itinerary.Stops)
	assert.Equal(t, "Tokyo", d.Pending.Name)

	current, _ := svc.Draft("s1")
	assert.Equal(t, d, current)
}

func TestItineraryService_Activities(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})

	_, err := svc.AddActivity("s1")
	require.NoError(t, err)
	_, err = svc.UpdateActivity("s1", 1, "Louvre")
	require.NoError(t, err)
	d, err := svc.RemoveActivity("s1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Louvre"}, d.Pending.Activities)

	d, err = svc.RemoveActivity("s1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Louvre"}, d.Pending.Activities, "last slot stays")

	_, err = svc.UpdateActivity("s1", 4, "x")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestItineraryService_RemoveStop(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})
	d := addParis(t, svc, "s1")

	unchanged, err := svc.RemoveStop("s1", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, d, unchanged)

	removed, err := svc.RemoveStop("s1", d.Itinerary.Stops[0].ID)
	require.NoError(t, err)
	assert.Empty(t, removed.Itinerary.Stops)
}

func TestItineraryService_Save(t *testing.T) {
	r, saved := appendLog()
	svc := newItineraryService(r)
	_, err := svc.SetHeader("s1", " Europe ", "2025-06-01", "2025-06-20")
	require.NoError(t, err)
	addParis(t, svc, "s1")

	it, err := svc.Save(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, "Europe", it.Title)
	assert.Equal(t, uuid.UUID{15: 2}, it.ID)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), it.CreatedAt)
	require.Len(t, *saved, 1)
	assert.Equal(t, it, (*saved)[0])

	d, err := svc.Draft("s1")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDraft(), d, "draft resets after save")
}

func TestItineraryService_Save_Validation(t *testing.T) {
	r, saved := appendLog()
	svc := newItineraryService(r)

	_, err := svc.Save(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrValidation)

	addParis(t, svc, "s1")
	_, err = svc.Save(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "title")

	assert.Empty(t, *saved)
}

func TestItineraryService_Save_StoreFailureKeepsDraft(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{
		append: func(context.Context, string, domain.Itinerary) error { return errors.New("disk full") },
	})
	_, err := svc.SetHeader("s1", "Europe", "", "")
	require.NoError(t, err)
	before := addParis(t, svc, "s1")

	_, err = svc.Save(context.Background(), "s1")

	assert.ErrorIs(t, err, domain.ErrTransport)
	after, _ := svc.Draft("s1")
	assert.Equal(t, before, after)
}

func TestItineraryService_DraftsAreIsolatedPerOwner(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})
	addParis(t, svc, "alice")

	other, err := svc.Draft("bob")

	require.NoError(t, err)
	assert.Empty(t, other.Itinerary.Stops)
}

func TestItineraryService_List(t *testing.T) {
	r, _ := appendLog()
	svc := newItineraryService(r)
	for _, title := range []string{"One", "Two"} {
		_, err := svc.SetHeader("s1", title, "", "")
		require.NoError(t, err)
		addParis(t, svc, "s1")
		_, err = svc.Save(context.Background(), "s1")
		require.NoError(t, err)
	}

	got, err := svc.List(context.Background(), "s1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Title)
	assert.Equal(t, "Two", got[1].Title)
}

func TestItineraryService_DraftReadsStoreNothing(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})

	for i := range 1000 {
		d, err := svc.Draft(fmt.Sprintf("session:%d", i))
		require.NoError(t, err)
		assert.Equal(t, domain.NewDraft(), d)
	}

	assert.Zero(t, svc.DraftCount())
}

func TestItineraryService_DraftsAreBounded(t *testing.T) {
	svc := newItineraryService(&mockItineraryRepo{})
	svc.SetMaxDrafts(2)
	setTitle := func(owner, title string) {
		t.Helper()
		_, err := svc.SetHeader(owner, title, "", "")
		require.NoError(t, err)
	}

	setTitle("a", "A")
	setTitle("b", "B")
	setTitle("a", "A2")
	setTitle("c", "C")

	assert.Equal(t, 2, svc.DraftCount())
	a, _ := svc.Draft("a")
	assert.Equal(t, "A2", a.Itinerary.Title)
	c, _ := svc.Draft("c")
	assert.Equal(t, "C", c.Itinerary.Title)
	b, _ := svc.Draft("b")
	assert.Equal(t, domain.NewDraft(), b, "least recently edited draft is dropped")
}
