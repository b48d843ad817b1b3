package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/wayfarer-travel/backend/internal/auth"
	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/service"
)

type createBookingRequest struct {
	DestinationID openapi_types.UUID  `json:"destination_id"`
	StartDate     *openapi_types.Date `json:"start_date"`
	EndDate       *openapi_types.Date `json:"end_date"`
	Guests        int                 `json:"guests"`
}

type bookingResponse struct {
	ID            openapi_types.UUID   `json:"id"`
	UserID        openapi_types.UUID   `json:"user_id"`
	DestinationID openapi_types.UUID   `json:"destination_id"`
	StartDate     openapi_types.Date   `json:"start_date"`
	EndDate       openapi_types.Date   `json:"end_date"`
	Guests        int                  `json:"guests"`
	TotalPrice    float64              `json:"total_price"`
	Status        domain.BookingStatus `json:"status"`
	Cancellable   bool                 `json:"cancellable"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// listBookings handles GET /bookings?status=.
func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.List(r.Context(), auth.UserFrom(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	out := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = bookingToResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// createBooking handles POST /bookings.
func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		s.writeError(w, r, domain.ErrAuthRequired, "")
		return
	}
	var body createBookingRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}
	in, err := requestToBookingInput(body)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	b, err := s.bookings.Create(r.Context(), user, in)
	if err != nil {
		s.writeError(w, r, err, "destination not found")
		return
	}
	writeJSON(w, http.StatusCreated, bookingToResponse(b))
}

// cancelBooking handles POST /bookings/{id}/cancel.
func (s *Server) cancelBooking(w http.ResponseWriter, r *http.Request) {
	s.transitionBooking(w, r, s.bookings.Cancel)
}

// confirmBooking handles POST /bookings/{id}/confirm.
func (s *Server) confirmBooking(w http.ResponseWriter, r *http.Request) {
	s.transitionBooking(w, r, s.bookings.Confirm)
}

// completeBooking handles POST /bookings/{id}/complete.
func (s *Server) completeBooking(w http.ResponseWriter, r *http.Request) {
	s.transitionBooking(w, r, s.bookings.Complete)
}

// transitionBooking runs one lifecycle move on the booking named in the path.
func (s *Server) transitionBooking(w http.ResponseWriter, r *http.Request, move func(context.Context, *domain.User, uuid.UUID) (domain.Booking, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	b, err := move(r.Context(), auth.UserFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, bookingToResponse(b))
}

// --- mapping helpers --------------------------------------------------------

// requestToBookingInput checks that the required fields are present before
// the service applies the business rules.
func requestToBookingInput(body createBookingRequest) (service.BookingInput, error) {
	if body.StartDate == nil || body.EndDate == nil {
		return service.BookingInput{}, fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	return service.BookingInput{
		DestinationID: body.DestinationID,
		StartDate:     body.StartDate.Time,
		EndDate:       body.EndDate.Time,
		Guests:        body.Guests,
	}, nil
}

func bookingToResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		DestinationID: b.DestinationID,
		StartDate:     openapi_types.Date{Time: b.StartDate},
		EndDate:       openapi_types.Date{Time: b.EndDate},
		Guests:        b.Guests,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		Cancellable:   b.Cancellable(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
