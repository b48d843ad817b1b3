package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/wayfarer-travel/backend/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListByUser returns a user's bookings ordered by start_date descending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)

	// UpdateStatus moves a booking from status `from` to status `to`. The
	// write only happens if the stored status still equals `from`; otherwise
	// domain.ErrIllegalTransition is returned and nothing changes.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, user_id, destination_id, start_date, end_date, guests,
		total_price::float8, status, created_at, updated_at`

// Create inserts a new booking row and returns the full persisted record.
func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (user_id, destination_id, start_date, end_date, guests, total_price, status)
		VALUES (@user_id, @destination_id, @start_date, @end_date, @guests, @total_price, @status)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"user_id":        b.UserID,
		"destination_id": b.DestinationID,
		"start_date":     b.StartDate,
		"end_date":       b.EndDate,
		"guests":         b.Guests,
		"total_price":    b.TotalPrice,
		"status":         string(b.Status),
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a booking by primary key.
func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns all bookings for a user, most recent trip first.
func (r *pgBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = @user_id
		ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListByUser: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: rows: %w", err)
	}
	return bookings, nil
}

// UpdateStatus performs a compare-and-set on the status column. When no row
// is updated, a follow-up read tells a missing booking apart from one whose
// status moved underneath the caller.
func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET status     = @to,
		    updated_at = now()
		WHERE id = @id AND status = @from
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{"id": id, "from": string(from), "to": string(to)}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}
	return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w: booking is %s",
		domain.ErrIllegalTransition, current.Status)
}

// scanBooking maps a single database row into a domain.Booking.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b                  domain.Booking
		id, userID, destID pgtype.UUID
		start, end         pgtype.Date
		status             string
	)
	err := s.Scan(&id, &userID, &destID, &start, &end, &b.Guests,
		&b.TotalPrice, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}
	b.ID = uuid.UUID(id.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.DestinationID = uuid.UUID(destID.Bytes)
	b.StartDate = start.Time
	b.EndDate = end.Time
	b.Status = domain.BookingStatus(status)
	return b, nil
}
