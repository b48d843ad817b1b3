package service

import (
	"time"

	"github.com/google/uuid"
)

// SetIdentity replaces the id and clock sources so tests get stable output.
func (s *ItineraryService) SetIdentity(newID func() uuid.UUID, now func() time.Time) {
	s.newID = newID
	s.now = now
}

// SetMaxDrafts lowers the draft limit so eviction can be tested cheaply.
func (s *ItineraryService) SetMaxDrafts(n int) { s.maxDrafts = n }

// DraftCount reports how many drafts are held in memory.
func (s *ItineraryService) DraftCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}
