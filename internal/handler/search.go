package handler

import (
	"sync"

	"github.com/wayfarer-travel/backend/internal/service"
)

// maxSearchSessions bounds the per-caller session table. When full it is
// reset; a caller that loses its session only loses stale-result tracking.
const maxSearchSessions = 4096

// searchSessions holds one QuerySession per caller so overlapping searches
// from the same caller resolve last-request-wins.
type searchSessions struct {
	q service.Querier

	mu       sync.Mutex
	sessions map[string]*service.QuerySession
}

func newSearchSessions(q service.Querier) *searchSessions {
	return &searchSessions{q: q, sessions: make(map[string]*service.QuerySession)}
}

func (s *searchSessions) session(key string) *service.QuerySession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qs, ok := s.sessions[key]; ok {
		return qs
	}
	if len(s.sessions) >= maxSearchSessions {
		clear(s.sessions)
	}
	qs := service.NewQuerySession(s.q)
	s.sessions[key] = qs
	return qs
}
