package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which flags an unexpected
// repo call.

type mockDestinationRepo struct {
	create    func(ctx context.Context, d domain.Destination) (domain.Destination, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Destination, error)
	findPaged func(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error)
}

func (m *mockDestinationRepo) Create(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	return m.create(ctx, d)
}
func (m *mockDestinationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error) {
	return m.getByID(ctx, id)
}
func (m *mockDestinationRepo) FindPaged(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error) {
	return m.findPaged(ctx, f)
}

var _ repo.DestinationRepo = (*mockDestinationRepo)(nil)

type mockReviewRepo struct {
	add               func(ctx context.Context, rv domain.Review) (domain.Review, domain.Destination, error)
	listByDestination func(ctx context.Context, destinationID uuid.UUID) ([]domain.Review, error)
}

func (m *mockReviewRepo) Add(ctx context.Context, rv domain.Review) (domain.Review, domain.Destination, error) {
	return m.add(ctx, rv)
}
func (m *mockReviewRepo) ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.Review, error) {
	return m.listByDestination(ctx, destinationID)
}

var _ repo.ReviewRepo = (*mockReviewRepo)(nil)

type mockBookingRepo struct {
	create       func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listByUser   func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	updateStatus func(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	return m.updateStatus(ctx, id, from, to)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

type mockItineraryRepo struct {
	append func(ctx context.Context, owner string, it domain.Itinerary) error
	list   func(ctx context.Context, owner string) ([]domain.Itinerary, error)
}

func (m *mockItineraryRepo) Append(ctx context.Context, owner string, it domain.Itinerary) error {
	return m.append(ctx, owner, it)
}
func (m *mockItineraryRepo) List(ctx context.Context, owner string) ([]domain.Itinerary, error) {
	return m.list(ctx, owner)
}

var _ repo.ItineraryRepo = (*mockItineraryRepo)(nil)
