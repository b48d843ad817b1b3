// Package service contains the business logic for the Wayfarer API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

// DestinationService is the destination query engine.
type DestinationService struct {
	destinations repo.DestinationRepo
	reviews      repo.ReviewRepo
}

// NewDestinationService constructs a DestinationService backed by the provided repos.
func NewDestinationService(destinations repo.DestinationRepo, reviews repo.ReviewRepo) *DestinationService {
	return &DestinationService{destinations: destinations, reviews: reviews}
}

// DestinationDetail is a destination together with its reviews, newest first.
type DestinationDetail struct {
	Destination domain.Destination
	Reviews     []domain.Review
}

// Query returns the page of destinations matching f. A store failure yields
// an empty page and an error wrapping domain.ErrTransport, so callers can
// render "no results" and still report the failure.
func (s *DestinationService) Query(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error) {
	result, err := s.destinations.FindPaged(ctx, f)
	if err != nil {
		empty := domain.NewPageResult[domain.Destination](f.Pagination(), nil, 0)
		return empty, fmt.Errorf("service.DestinationService.Query: %w", transportError(err))
	}
	return result, nil
}

// GetByID returns a single destination.
// Returns domain.ErrNotFound if it does not exist.
func (s *DestinationService) GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error) {
	d, err := s.destinations.GetByID(ctx, id)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.GetByID: %w", transportError(err))
	}
	return d, nil
}

// Detail loads a destination and its reviews concurrently.
// Returns domain.ErrNotFound if the destination does not exist.
func (s *DestinationService) Detail(ctx context.Context, id uuid.UUID) (DestinationDetail, error) {
	var out DestinationDetail

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.destinations.GetByID(gctx, id)
		out.Destination = d
		return err
	})
	g.Go(func() error {
		rs, err := s.reviews.ListByDestination(gctx, id)
		out.Reviews = rs
		return err
	})
	if err := g.Wait(); err != nil {
		return DestinationDetail{}, fmt.Errorf("service.DestinationService.Detail: %w", transportError(err))
	}

	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	return out, nil
}

// transportError tags store failures with domain.ErrTransport. Errors that
// already carry a domain meaning, and context cancellation, pass through.
func transportError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrAuthRequired),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrTransport),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransport, err)
}
