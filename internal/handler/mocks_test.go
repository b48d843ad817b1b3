package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/backend/internal/auth"
	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/handler"
	"github.com/wayfarer-travel/backend/internal/service"
)

// Function-field test doubles for the servicer interfaces. Set only the
// fields a test needs.

type mockDestinations struct {
	query  func(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error)
	detail func(ctx context.Context, id uuid.UUID) (service.DestinationDetail, error)
}

func (m *mockDestinations) Query(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error) {
	return m.query(ctx, f)
}
func (m *mockDestinations) Detail(ctx context.Context, id uuid.UUID) (service.DestinationDetail, error) {
	return m.detail(ctx, id)
}

var _ handler.DestinationServicer = (*mockDestinations)(nil)

type mockReviews struct {
	addReview func(ctx context.Context, user *domain.User, id uuid.UUID, in service.ReviewInput) (domain.Review, domain.Destination, error)
	list      func(ctx context.Context, id uuid.UUID) ([]domain.Review, error)
}

func (m *mockReviews) AddReview(ctx context.Context, user *domain.User, id uuid.UUID, in service.ReviewInput) (domain.Review, domain.Destination, error) {
	return m.addReview(ctx, user, id, in)
}
func (m *mockReviews) List(ctx context.Context, id uuid.UUID) ([]domain.Review, error) {
	return m.list(ctx, id)
}

var _ handler.ReviewServicer = (*mockReviews)(nil)

type mockBookings struct {
	create   func(ctx context.Context, user *domain.User, in service.BookingInput) (domain.Booking, error)
	list     func(ctx context.Context, user *domain.User, status string) ([]domain.Booking, error)
	cancel   func(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error)
	confirm  func(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error)
	complete func(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error)
}

func (m *mockBookings) Create(ctx context.Context, user *domain.User, in service.BookingInput) (domain.Booking, error) {
	return m.create(ctx, user, in)
}
func (m *mockBookings) List(ctx context.Context, user *domain.User, status string) ([]domain.Booking, error) {
	return m.list(ctx, user, status)
}
func (m *mockBookings) Cancel(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error) {
	return m.cancel(ctx, user, id)
}
func (m *mockBookings) Confirm(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error) {
	return m.confirm(ctx, user, id)
}
func (m *mockBookings) Complete(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Booking, error) {
	return m.complete(ctx, user, id)
}

var _ handler.BookingServicer = (*mockBookings)(nil)

// ---- helpers ---------------------------------------------------------------

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// newHTTPHandler wires a Server with the given services into its router,
// the same way main.go does minus the middleware stack.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, discard).Routes()
}

// serve runs one request, optionally as user, and returns the recorder.
func serve(t *testing.T, h http.Handler, method, target string, body any, user *domain.User) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), *user))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var e errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	return e
}
