package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wayfarer-travel/backend/internal/auth"
	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/service"
)

// destinationPage is the GET /destinations body. Error is set, next to an
// empty page, when the catalog store could not be queried.
type destinationPage struct {
	Filter domain.Filter `json:"filter"`
	domain.PageResult[domain.Destination]
	Error *errorDetail `json:"error,omitempty"`
}

type reviewResponse struct {
	domain.Review
	Date  string `json:"date"`
	Stars string `json:"stars"`
}

type destinationDetailResponse struct {
	domain.Destination
	DisplayRating float64          `json:"display_rating"`
	Stars         string           `json:"stars"`
	Reviews       []reviewResponse `json:"reviews"`
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type createReviewResponse struct {
	Review      reviewResponse     `json:"review"`
	Destination domain.Destination `json:"destination"`
}

// searchInput reads the query string of GET /destinations. The home page
// hand-off names ("destination", "maxPrice") are accepted as aliases.
func searchInput(q url.Values) service.SearchInput {
	return service.SearchInput{
		Destination: firstOf(q, "search", "destination"),
		Category:    q.Get("category"),
		Date:        q.Get("date"),
		MinPrice:    firstOf(q, "min_price", "minPrice"),
		MaxPrice:    firstOf(q, "max_price", "maxPrice"),
		Page:        q.Get("page"),
		Limit:       q.Get("limit"),
	}
}

func firstOf(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// listDestinations handles GET /destinations.
func (s *Server) listDestinations(w http.ResponseWriter, r *http.Request) {
	f := service.NormalizeFilter(searchInput(r.URL.Query()))

	var (
		result domain.PageResult[domain.Destination]
		err    error
	)
	if key := callerKey(r); key != "" {
		view, applied := s.searches.session(key).Search(r.Context(), f)
		if !applied {
			writeJSON(w, http.StatusConflict, errorBody("conflict", "superseded by a newer search"))
			return
		}
		result, err = view.Result, view.Err
	} else {
		result, err = s.destinations.Query(r.Context(), f)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrTransport) {
			s.writeError(w, r, err, "")
			return
		}
		s.log.WarnContext(r.Context(), "destination query failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, destinationPage{
			Filter:     f,
			PageResult: domain.NewPageResult[domain.Destination](f.Pagination(), nil, 0),
			Error:      &errorDetail{Code: "unavailable", Message: "destinations are temporarily unavailable"},
		})
		return
	}

	writeJSON(w, http.StatusOK, destinationPage{Filter: f, PageResult: result})
}

// getDestination handles GET /destinations/{id}.
func (s *Server) getDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	detail, err := s.destinations.Detail(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "destination not found")
		return
	}

	reviews := make([]reviewResponse, len(detail.Reviews))
	for i, rv := range detail.Reviews {
		reviews[i] = reviewToResponse(rv)
	}
	writeJSON(w, http.StatusOK, destinationDetailResponse{
		Destination:   detail.Destination,
		DisplayRating: domain.DisplayRating(detail.Destination.Rating),
		Stars:         domain.StarString(detail.Destination.Rating),
		Reviews:       reviews,
	})
}

// listReviews handles GET /destinations/{id}/reviews.
func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	reviews, err := s.reviews.List(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "destination not found")
		return
	}

	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = reviewToResponse(rv)
	}
	writeJSON(w, http.StatusOK, out)
}

// createReview handles POST /destinations/{id}/reviews.
func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body createReviewRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}

	rv, dest, err := s.reviews.AddReview(r.Context(), auth.UserFrom(r.Context()), id, service.ReviewInput{
		Rating:  body.Rating,
		Comment: body.Comment,
	})
	if err != nil {
		s.writeError(w, r, err, "destination not found")
		return
	}
	writeJSON(w, http.StatusCreated, createReviewResponse{Review: reviewToResponse(rv), Destination: dest})
}

func reviewToResponse(rv domain.Review) reviewResponse {
	return reviewResponse{Review: rv, Date: rv.Date(), Stars: domain.StarString(float64(rv.Rating))}
}

// pathUUID parses a UUID path parameter. A malformed value is a validation
// error rather than a 404 so clients can tell a typo from a missing record.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID", domain.ErrValidation, name)
	}
	return id, nil
}
