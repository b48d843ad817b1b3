package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a reservation.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// StatusAll is the pseudo-status that selects every booking in FilterByStatus.
const StatusAll = "all"

// transitions lists the legal next states for each status.
// completed and cancelled are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a reservation of a destination for a date range.
// Status changes are user- or operator-driven; nothing infers them from dates.
type Booking struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	DestinationID uuid.UUID     `json:"destination_id"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	Guests        int           `json:"guests"`
	TotalPrice    float64       `json:"total_price"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Cancellable reports whether the cancel action should be offered for b.
func (b Booking) Cancellable() bool {
	return b.Status.CanTransitionTo(BookingCancelled)
}

// FilterByStatus returns the bookings whose status equals status, or all of
// them when status is "all". The input slice is not modified.
func FilterByStatus(bookings []Booking, status string) []Booking {
	out := []Booking{}
	for _, b := range bookings {
		if status == StatusAll || string(b.Status) == status {
			out = append(out, b)
		}
	}
	return out
}
