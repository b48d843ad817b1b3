package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

// BookingService tracks the lifecycle of a user's reservations.
type BookingService struct {
	bookings     repo.BookingRepo
	destinations repo.DestinationRepo
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(bookings repo.BookingRepo, destinations repo.DestinationRepo) *BookingService {
	return &BookingService{bookings: bookings, destinations: destinations}
}

// BookingInput is the body of a reservation request.
type BookingInput struct {
	DestinationID uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	Guests        int
}

// Create reserves a destination for user. The booking starts pending and its
// total is the destination price times the number of guests.
func (s *BookingService) Create(ctx context.Context, user *domain.User, in BookingInput) (domain.Booking, error) {
	if user == nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", domain.ErrAuthRequired)
	}
	if err := validateBookingInput(in); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	dest, err := s.destinations.GetByID(ctx, in.DestinationID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", transportError(err))
	}

	b, err := s.bookings.Create(ctx, domain.Booking{
		UserID:        user.ID,
		DestinationID: dest.ID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Guests:        in.Guests,
		TotalPrice:    dest.Price * float64(in.Guests),
		Status:        domain.BookingPending,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", transportError(err))
	}
	return b, nil
}

func validateBookingInput(in BookingInput) error {
	var problems []string
	if in.DestinationID == uuid.Nil {
		problems = append(problems, "destination_id is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		problems = append(problems, "start_date and end_date are required")
	} else if in.EndDate.Before(in.StartDate) {
		problems = append(problems, "end_date must not be before start_date")
	}
	if in.Guests < 1 {
		problems = append(problems, "guests must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// List returns user's bookings whose status matches status. "all" or an
// empty status returns every booking; an unknown status is a validation error.
func (s *BookingService) List(ctx context.Context, user *domain.User, status string) ([]domain.Booking, error) {
	if user == nil {
		return nil, fmt.Errorf("service.BookingService.List: %w", domain.ErrAuthRequired)
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		status = domain.StatusAll
	}
	if status != domain.StatusAll && !domain.BookingStatus(status).Valid() {
		return nil, fmt.Errorf("service.BookingService.List: %w: unknown status %q", domain.ErrValidation, status)
	}

	all, err := s.bookings.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.List: %w", transportError(err))
	}
	return domain.FilterByStatus(all, status), nil
}

// Get returns one of user's bookings. Another user's booking reads as
// domain.ErrNotFound.
func (s *BookingService) Get(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error) {
	if user == nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Get: %w", domain.ErrAuthRequired)
	}
	b, err := s.owned(ctx, user, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Get: %w", err)
	}
	return b, nil
}

// Cancel moves one of user's bookings to cancelled. Only pending and
// confirmed bookings can be cancelled.
func (s *BookingService) Cancel(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error) {
	if user == nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Cancel: %w", domain.ErrAuthRequired)
	}
	b, err := s.owned(ctx, user, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Cancel: %w", err)
	}
	b, err = s.transition(ctx, b, domain.BookingCancelled)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Cancel: %w", err)
	}
	return b, nil
}

// Confirm moves a pending booking to confirmed. Operators only.
func (s *BookingService) Confirm(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error) {
	b, err := s.operatorTransition(ctx, user, id, domain.BookingConfirmed)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Confirm: %w", err)
	}
	return b, nil
}

// Complete moves a confirmed booking to completed. Operators only.
func (s *BookingService) Complete(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error) {
	b, err := s.operatorTransition(ctx, user, id, domain.BookingCompleted)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Complete: %w", err)
	}
	return b, nil
}

func (s *BookingService) operatorTransition(ctx context.Context, user *domain.User, id uuid.UUID, to domain.BookingStatus) (domain.Booking, error) {
	if user == nil {
		return domain.Booking{}, domain.ErrAuthRequired
	}
	if user.Role != domain.RoleOperator {
		return domain.Booking{}, fmt.Errorf("%w: %s requires the operator role", domain.ErrForbidden, to)
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, transportError(err)
	}
	return s.transition(ctx, b, to)
}

// transition checks the move locally, then asks the repo to apply it only if
// the stored status is still the one we read.
func (s *BookingService) transition(ctx context.Context, b domain.Booking, to domain.BookingStatus) (domain.Booking, error) {
	if !b.Status.CanTransitionTo(to) {
		return domain.Booking{}, fmt.Errorf("%w: cannot move %s booking to %s", domain.ErrIllegalTransition, b.Status, to)
	}
	updated, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, to)
	if err != nil {
		return domain.Booking{}, transportError(err)
	}
	return updated, nil
}

func (s *BookingService) owned(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, transportError(err)
	}
	if b.UserID != user.ID {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}
