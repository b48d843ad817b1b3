package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/backend/internal/auth"
	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/middleware"
)

const maxSessionIDLen = 128

type draftHeaderRequest struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type activityRequest struct {
	Value string `json:"value"`
}

// callerKey identifies the caller for per-caller state (drafts, search
// sessions): the signed-in user, else the anonymous session header. Empty
// means neither was supplied.
func callerKey(r *http.Request) string {
	if u := auth.UserFrom(r.Context()); u != nil {
		return "user:" + u.ID.String()
	}
	sid := strings.TrimSpace(r.Header.Get(middleware.SessionHeader))
	if sid == "" || len(sid) > maxSessionIDLen {
		return ""
	}
	return "session:" + sid
}

// respondDraft writes the outcome of a draft operation. A rejected
// operation reports the error; the stored draft is unchanged.
func (s *Server) respondDraft(w http.ResponseWriter, r *http.Request, d domain.Draft, err error) {
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// getDraft handles GET /itinerary/draft.
func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.itineraries.Draft(callerKey(r))
	s.respondDraft(w, r, d, err)
}

// putDraftHeader handles PUT /itinerary/draft.
func (s *Server) putDraftHeader(w http.ResponseWriter, r *http.Request) {
	var body draftHeaderRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}
	d, err := s.itineraries.SetHeader(callerKey(r), body.Title, body.StartDate, body.EndDate)
	s.respondDraft(w, r, d, err)
}

// putPendingStop handles PUT /itinerary/draft/pending.
func (s *Server) putPendingStop(w http.ResponseWriter, r *http.Request) {
	var body domain.StopFields
	if err := decodeJSON(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}
	d, err := s.itineraries.UpdatePending(callerKey(r), body)
	s.respondDraft(w, r, d, err)
}

// addActivity handles POST /itinerary/draft/pending/activities.
func (s *Server) addActivity(w http.ResponseWriter, r *http.Request) {
	d, err := s.itineraries.AddActivity(callerKey(r))
	s.respondDraft(w, r, d, err)
}

// updateActivity handles PUT /itinerary/draft/pending/activities/{index}.
func (s *Server) updateActivity(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body activityRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}
	d, err := s.itineraries.UpdateActivity(callerKey(r), index, body.Value)
	s.respondDraft(w, r, d, err)
}

// removeActivity handles DELETE /itinerary/draft/pending/activities/{index}.
func (s *Server) removeActivity(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	d, err := s.itineraries.RemoveActivity(callerKey(r), index)
	s.respondDraft(w, r, d, err)
}

// addStop handles POST /itinerary/draft/stops.
func (s *Server) addStop(w http.ResponseWriter, r *http.Request) {
	d, err := s.itineraries.AddStop(callerKey(r))
	s.respondDraft(w, r, d, err)
}

// removeStop handles DELETE /itinerary/draft/stops/{stopId}.
func (s *Server) removeStop(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "stopId")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	d, err := s.itineraries.RemoveStop(callerKey(r), id)
	s.respondDraft(w, r, d, err)
}

// saveItinerary handles POST /itinerary/draft/save.
func (s *Server) saveItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := s.itineraries.Save(r.Context(), callerKey(r))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// listItineraries handles GET /itineraries.
func (s *Server) listItineraries(w http.ResponseWriter, r *http.Request) {
	its, err := s.itineraries.List(r.Context(), callerKey(r))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, its)
}

func pathIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: index must be a non-negative integer", domain.ErrValidation)
	}
	return index, nil
}
