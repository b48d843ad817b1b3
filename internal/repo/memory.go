package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/backend/internal/domain"
)

// MemoryStore keeps the catalog, reviews and bookings in process memory.
// It backs the server when no DATABASE_URL is configured and gives tests a
// real store without Postgres. Catalog order is insertion order.
type MemoryStore struct {
	mu           sync.RWMutex
	now          func() time.Time
	destinations []domain.Destination
	reviews      map[uuid.UUID][]domain.Review // oldest first
	bookings     []domain.Booking
}

// NewMemoryStore returns a store seeded with the given destinations.
// Seeds without an ID are assigned one.
func NewMemoryStore(seed []domain.Destination) *MemoryStore {
	s := &MemoryStore{
		now:     func() time.Time { return time.Now().UTC() },
		reviews: map[uuid.UUID][]domain.Review{},
	}
	for _, d := range seed {
		s.insertDestination(d)
	}
	return s
}

// Destinations returns a DestinationRepo view of the store.
func (s *MemoryStore) Destinations() DestinationRepo { return memDestinationRepo{s} }

// Reviews returns a ReviewRepo view of the store.
func (s *MemoryStore) Reviews() ReviewRepo { return memReviewRepo{s} }

// Bookings returns a BookingRepo view of the store.
func (s *MemoryStore) Bookings() BookingRepo { return memBookingRepo{s} }

func (s *MemoryStore) insertDestination(d domain.Destination) domain.Destination {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}
	d.Highlights = nonNil(slices.Clone(d.Highlights))
	d.Includes = nonNil(slices.Clone(d.Includes))
	s.destinations = append(s.destinations, d)
	return d
}

func (s *MemoryStore) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.destinations, func(d domain.Destination) bool { return d.ID == id })
}

// ---- destinations -----------------------------------------------------------

type memDestinationRepo struct{ s *MemoryStore }

func (r memDestinationRepo) Create(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	if err := ctx.Err(); err != nil {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.Create: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertDestination(d), nil
}

func (r memDestinationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error) {
	if err := ctx.Err(); err != nil {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.GetByID: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := r.s.indexOf(id)
	if i < 0 {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.GetByID: %w", domain.ErrNotFound)
	}
	return r.s.destinations[i], nil
}

func (r memDestinationRepo) FindPaged(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error) {
	if err := ctx.Err(); err != nil {
		return domain.PageResult[domain.Destination]{}, fmt.Errorf("repo.DestinationRepo.FindPaged: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return domain.QueryDestinations(r.s.destinations, f), nil
}

// ---- reviews ----------------------------------------------------------------

type memReviewRepo struct{ s *MemoryStore }

func (r memReviewRepo) Add(ctx context.Context, rv domain.Review) (domain.Review, domain.Destination, error) {
	if err := ctx.Err(); err != nil {
		return domain.Review{}, domain.Destination{}, fmt.Errorf("repo.ReviewRepo.Add: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.indexOf(rv.DestinationID)
	if i < 0 {
		return domain.Review{}, domain.Destination{}, fmt.Errorf("repo.ReviewRepo.Add: %w", domain.ErrNotFound)
	}

	rv.ID = uuid.New()
	rv.CreatedAt = r.s.now()
	r.s.reviews[rv.DestinationID] = append(r.s.reviews[rv.DestinationID], rv)
	r.s.destinations[i].ApplyReview(rv.Rating)
	return rv, r.s.destinations[i], nil
}

func (r memReviewRepo) ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByDestination: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := slices.Clone(r.s.reviews[destinationID])
	slices.Reverse(out)
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

// ---- bookings ---------------------------------------------------------------

type memBookingRepo struct{ s *MemoryStore }

func (r memBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b.ID = uuid.New()
	b.CreatedAt = r.s.now()
	b.UpdatedAt = b.CreatedAt
	r.s.bookings = append(r.s.bookings, b)
	return b, nil
}

func (r memBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := slices.IndexFunc(r.s.bookings, func(b domain.Booking) bool { return b.ID == id })
	if i < 0 {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", domain.ErrNotFound)
	}
	return r.s.bookings[i], nil
}

func (r memBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Booking{}
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Booking) int {
		return b.StartDate.Compare(a.StartDate)
	})
	return out, nil
}

func (r memBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.bookings, func(b domain.Booking) bool { return b.ID == id })
	if i < 0 {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	if r.s.bookings[i].Status != from {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w: booking is %s",
			domain.ErrIllegalTransition, r.s.bookings[i].Status)
	}
	r.s.bookings[i].Status = to
	r.s.bookings[i].UpdatedAt = r.s.now()
	return r.s.bookings[i], nil
}
