package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. blank review comment, stop without an arrival date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrAuthRequired is returned when an operation needs an authenticated user
// and the request carried none. Handlers should map this to HTTP 401.
var ErrAuthRequired = errors.New("authentication required")

// ErrIllegalTransition is returned when a booking status change is not
// permitted from the booking's current status. Handlers should map this to
// HTTP 409 Conflict.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrTransport is returned when the backing store could not be reached or a
// query against it failed. Callers degrade the affected view to an empty
// result. Handlers should map this to HTTP 503.
var ErrTransport = errors.New("transport error")

// ErrForbidden is returned when the caller is authenticated but lacks the
// role an operation needs. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")
