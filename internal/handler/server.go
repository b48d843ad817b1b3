// Package handler implements the HTTP handlers for the Wayfarer API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, destination.go, etc.) but share the same Server struct so
// they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/service"
)

// The servicer interfaces are defined here, in the consumer package, so
// handler tests can inject function-field mocks instead of real services.

// DestinationServicer is the destination query engine.
type DestinationServicer interface {
	Query(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error)
	Detail(ctx context.Context, id uuid.UUID) (service.DestinationDetail, error)
}

// ReviewServicer is the review aggregator.
type ReviewServicer interface {
	AddReview(ctx context.Context, user *domain.User, destinationID uuid.UUID, in service.ReviewInput) (domain.Review, domain.Destination, error)
	List(ctx context.Context, destinationID uuid.UUID) ([]domain.Review, error)
}

// BookingServicer is the booking lifecycle tracker.
type BookingServicer interface {
	Create(ctx context.Context, user *domain.User, in service.BookingInput) (domain.Booking, error)
	List(ctx context.Context, user *domain.User, status string) ([]domain.Booking, error)
	Cancel(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error)
	Confirm(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error)
	Complete(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error)
}

// ItineraryServicer is the itinerary composer.
type ItineraryServicer interface {
	Draft(owner string) (domain.Draft, error)
	SetHeader(owner, title, startDate, endDate string) (domain.Draft, error)
	UpdatePending(owner string, f domain.StopFields) (domain.Draft, error)
	AddActivity(owner string) (domain.Draft, error)
	UpdateActivity(owner string, index int, value string) (domain.Draft, error)
	RemoveActivity(owner string, index int) (domain.Draft, error)
	AddStop(owner string) (domain.Draft, error)
	RemoveStop(owner string, stopID uuid.UUID) (domain.Draft, error)
	Save(ctx context.Context, owner string) (domain.Itinerary, error)
	List(ctx context.Context, owner string) ([]domain.Itinerary, error)
}

// Services bundles the Server's dependencies.
type Services struct {
	Destinations DestinationServicer
	Reviews      ReviewServicer
	Bookings     BookingServicer
	Itineraries  ItineraryServicer
}

// Server serves every API endpoint.
type Server struct {
	destinations DestinationServicer
	reviews      ReviewServicer
	bookings     BookingServicer
	itineraries  ItineraryServicer
	searches     *searchSessions
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		destinations: svc.Destinations,
		reviews:      svc.Reviews,
		bookings:     svc.Bookings,
		itineraries:  svc.Itineraries,
		searches:     newSearchSessions(svc.Destinations),
		log:          log,
	}
}

// Routes returns the API router. Cross-cutting middleware (request ids,
// logging, CORS, auth) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "no such route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/destinations", func(r chi.Router) {
		r.Get("/", s.listDestinations)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getDestination)
			r.Get("/reviews", s.listReviews)
			r.Post("/reviews", s.createReview)
		})
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", s.listBookings)
		r.Post("/", s.createBooking)
		r.Post("/{id}/cancel", s.cancelBooking)
		r.Post("/{id}/confirm", s.confirmBooking)
		r.Post("/{id}/complete", s.completeBooking)
	})

	r.Route("/itinerary/draft", func(r chi.Router) {
		r.Get("/", s.getDraft)
		r.Put("/", s.putDraftHeader)
		r.Put("/pending", s.putPendingStop)
		r.Post("/pending/activities", s.addActivity)
		r.Put("/pending/activities/{index}", s.updateActivity)
		r.Delete("/pending/activities/{index}", s.removeActivity)
		r.Post("/stops", s.addStop)
		r.Delete("/stops/{stopId}", s.removeStop)
		r.Post("/save", s.saveItinerary)
	})
	r.Get("/itineraries", s.listItineraries)

	return r
}
