package service

import (
	"context"
	"sync"

	"github.com/wayfarer-travel/backend/internal/domain"
)

// Querier runs a destination query. *DestinationService satisfies it.
type Querier interface {
	Query(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error)
}

// QueryView is the state a results view renders.
type QueryView struct {
	Filter  domain.Filter
	Loading bool
	Result  domain.PageResult[domain.Destination]
	Err     error
}

// QuerySession serializes the results of overlapping searches so that only
// the most recently issued one is ever applied. Safe for concurrent use.
type QuerySession struct {
	q Querier

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	view    QueryView
	applied uint64
}

// NewQuerySession returns a session whose view starts as an empty page of
// the default filter.
func NewQuerySession(q Querier) *QuerySession {
	f := DefaultFilter()
	return &QuerySession{
		q: q,
		view: QueryView{
			Filter: f,
			Result: domain.NewPageResult[domain.Destination](f.Pagination(), nil, 0),
		},
	}
}

// Search issues a query for f, cancelling any query still in flight, and
// blocks until it resolves. It reports whether the result was applied to the
// view; a result superseded by a later Search is discarded.
func (s *QuerySession) Search(ctx context.Context, f domain.Filter) (QueryView, bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.view.Filter = f
	s.view.Loading = true
	s.mu.Unlock()

	result, err := s.q.Query(ctx, f)
	return s.resolve(seq, result, err)
}

func (s *QuerySession) resolve(seq uint64, result domain.PageResult[domain.Destination], err error) (QueryView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return s.view, false
	}

	s.cancel = nil
	s.view.Loading = false
	s.view.Err = err
	if err != nil {
		s.view.Result = domain.NewPageResult[domain.Destination](s.view.Filter.Pagination(), nil, 0)
	} else {
		s.view.Result = result
	}
	s.applied = seq
	return s.view, true
}

// View returns the current view.
func (s *QuerySession) View() QueryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Applied returns the sequence number of the last applied result, 0 if none.
func (s *QuerySession) Applied() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}
