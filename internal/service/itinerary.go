package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

// MaxDrafts bounds the number of in-progress drafts held in memory. When a
// new owner starts a draft at the limit, the least recently edited draft is
// dropped.
const MaxDrafts = 4096

// ItineraryService holds one in-progress Draft per owner and appends
// finished itineraries to the local store. An owner is a user id or an
// anonymous session key.
type ItineraryService struct {
	repo      repo.ItineraryRepo
	newID     func() uuid.UUID
	now       func() time.Time
	maxDrafts int

	mu     sync.Mutex
	tick   uint64
	drafts map[string]draftEntry
}

type draftEntry struct {
	draft   domain.Draft
	touched uint64
}

// NewItineraryService constructs an ItineraryService backed by the provided repo.
func NewItineraryService(r repo.ItineraryRepo) *ItineraryService {
	return &ItineraryService{
		repo:      r,
		newID:     uuid.New,
		now:       time.Now,
		maxDrafts: MaxDrafts,
		drafts:    make(map[string]draftEntry),
	}
}

// Draft returns owner's current draft, or an empty one if owner has not
// started editing. Reading never stores anything.
func (s *ItineraryService) Draft(owner string) (domain.Draft, error) {
	if owner == "" {
		return domain.Draft{}, fmt.Errorf("service.ItineraryService.Draft: %w", domain.ErrAuthRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(owner), nil
}

// SetHeader sets the draft's title and date range.
func (s *ItineraryService) SetHeader(owner, title, startDate, endDate string) (domain.Draft, error) {
	return s.update(owner, func(d domain.Draft) (domain.Draft, error) {
		return d.SetHeader(strings.TrimSpace(title), strings.TrimSpace(startDate), strings.TrimSpace(endDate)), nil
	})
}

// UpdatePending replaces the pending stop's fields.
func (s *ItineraryService) UpdatePending(owner string, f domain.StopFields) (domain.Draft, error) {
	return s.update(owner, func(d domain.Draft) (domain.Draft, error) {
		return d.UpdatePending(f), nil
	})
}

// AddActivity appends a blank activity slot to the pending stop.
func (s *ItineraryService) AddActivity(owner string) (domain.Draft, error) {
	return s.update(owner, func(d domain.Draft) (domain.Draft, error) {
		return d.AddActivity(), nil
	})
}

// UpdateActivity sets the text of one pending activity slot.
func (s *ItineraryService) UpdateActivity(owner string, index int, value string) (domain.Draft, error) {
	return s.update(owner, func(d domain.Draft) (domain.Draft, error) {
		return d.UpdateActivity(index, value)
	})
}

// RemoveActivity drops one pending activity slot. The last slot stays.
func (s *ItineraryService) RemoveActivity(owner string, index int) (domain.Draft, error) {
	return s.update(owner, func(d domain.Draft) (domain.Draft, error) {
		return d.RemoveActivity(index), nil
	})
}

// AddStop commits the pending stop to the draft.
// Returns domain.ErrValidation naming the missing fields.
func (s *ItineraryService) AddStop(owner string) (domain.Draft, error) {
	return s.update(owner, func(d domain.Draft) (domain.Draft, error) {
		return d.AddStop(s.newID())
	})
}

// RemoveStop removes a committed stop. An unknown id changes nothing.
func (s *ItineraryService) RemoveStop(owner string, stopID uuid.UUID) (domain.Draft, error) {
	return s.update(owner, func(d domain.Draft) (domain.Draft, error) {
		return d.RemoveStop(stopID), nil
	})
}

// Save appends owner's draft to the store as a new itinerary and resets the
// draft. On any failure the draft is kept as it was.
func (s *ItineraryService) Save(ctx context.Context, owner string) (domain.Itinerary, error) {
	if owner == "" {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Save: %w", domain.ErrAuthRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.current(owner).Finalize(s.newID(), s.now())
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Save: %w", err)
	}
	if err := s.repo.Append(ctx, owner, it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Save: %w", transportError(err))
	}

	delete(s.drafts, owner)
	return it, nil
}

// List returns owner's saved itineraries in creation order.
func (s *ItineraryService) List(ctx context.Context, owner string) ([]domain.Itinerary, error) {
	if owner == "" {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", domain.ErrAuthRequired)
	}
	its, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", transportError(err))
	}
	return its, nil
}

// update applies fn to owner's draft and stores the result unless fn fails.
func (s *ItineraryService) update(owner string, fn func(domain.Draft) (domain.Draft, error)) (domain.Draft, error) {
	if owner == "" {
		return domain.Draft{}, fmt.Errorf("service.ItineraryService: %w", domain.ErrAuthRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.current(owner)
	next, err := fn(d)
	if err != nil {
		return d, fmt.Errorf("service.ItineraryService: %w", err)
	}
	if _, ok := s.drafts[owner]; !ok && len(s.drafts) >= s.maxDrafts {
		s.evictOldest()
	}
	s.tick++
	s.drafts[owner] = draftEntry{draft: next, touched: s.tick}
	return next, nil
}

// current returns owner's stored draft or a fresh one. Callers hold mu.
func (s *ItineraryService) current(owner string) domain.Draft {
	if e, ok := s.drafts[owner]; ok {
		return e.draft
	}
	return domain.NewDraft()
}

// evictOldest drops the least recently edited draft. Callers hold mu.
func (s *ItineraryService) evictOldest() {
	var (
		oldest string
		at     uint64
		found  bool
	)
	for owner, e := range s.drafts {
		if !found || e.touched < at {
			oldest, at, found = owner, e.touched, true
		}
	}
	if found {
		delete(s.drafts, oldest)
	}
}
