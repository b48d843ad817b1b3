package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/wayfarer-travel/backend/internal/domain"
)

// errorDetail is the body of every error response:
// {"error":{"code":"not_found","message":"destination not found"}}.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func errorBody(code, message string) errorResponse {
	return errorResponse{Error: errorDetail{Code: code, Message: message}}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps a domain sentinel to an HTTP status and error code.
// Anything unrecognised is a 500.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, domain.ErrAuthRequired):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrIllegalTransition):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrTransport):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError responds with the status errorStatus picks for err. Server-side
// failures are logged with the request id and their detail is not exposed.
//
// A request whose client has gone away gets no response and no error log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		s.log.DebugContext(r.Context(), "client went away",
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		return
	}
	status, code := errorStatus(err)
	msg := unwrapMessage(err)
	switch {
	case status == http.StatusNotFound && notFound != "":
		msg = notFound
	case status >= http.StatusInternalServerError:
		s.log.ErrorContext(r.Context(), "request failed",
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody(code, msg))
}

var sentinels = []error{
	domain.ErrValidation,
	domain.ErrAuthRequired,
	domain.ErrForbidden,
	domain.ErrNotFound,
	domain.ErrIllegalTransition,
	domain.ErrTransport,
}

// unwrapMessage extracts the human-readable part that follows the sentinel
// in a wrapped error chain, e.g.
// "service.ReviewService.AddReview: validation error: comment is required"
// becomes "comment is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range sentinels {
		if !errors.Is(err, sentinel) {
			continue
		}
		marker := sentinel.Error() + ": "
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
		return sentinel.Error()
	}
	return msg
}

// decodeJSON reads a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected. The returned error wraps
// domain.ErrValidation, except for an oversized body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is required", domain.ErrValidation)
		}
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", domain.ErrValidation)
	}
	return nil
}

// writeDecodeError answers a failed decodeJSON.
func (s *Server) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("too_large", "request body too large"))
		return
	}
	s.writeError(w, r, err, "")
}
