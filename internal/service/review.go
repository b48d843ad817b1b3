package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

// ReviewService is the review aggregator.
type ReviewService struct {
	repo repo.ReviewRepo
}

// NewReviewService constructs a ReviewService backed by the provided repo.
func NewReviewService(r repo.ReviewRepo) *ReviewService {
	return &ReviewService{repo: r}
}

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	Rating  int
	Comment string
}

// AddReview stores a review by user and folds its rating into the
// destination's mean. It returns the stored review and the updated destination.
//
// Returns domain.ErrAuthRequired when user is nil, domain.ErrValidation on a
// rating outside 1..5 or a blank comment, and domain.ErrNotFound when the
// destination does not exist. Nothing is written on any of these.
func (s *ReviewService) AddReview(ctx context.Context, user *domain.User, destinationID uuid.UUID, in ReviewInput) (domain.Review, domain.Destination, error) {
	if user == nil {
		return domain.Review{}, domain.Destination{}, fmt.Errorf("service.ReviewService.AddReview: %w", domain.ErrAuthRequired)
	}
	comment := strings.TrimSpace(in.Comment)
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Review{}, domain.Destination{}, fmt.Errorf("service.ReviewService.AddReview: %w: rating must be between 1 and 5", domain.ErrValidation)
	}
	if comment == "" {
		return domain.Review{}, domain.Destination{}, fmt.Errorf("service.ReviewService.AddReview: %w: comment is required", domain.ErrValidation)
	}

	rv := domain.Review{
		DestinationID: destinationID,
		UserID:        user.ID,
		Author:        user.DisplayName(),
		Rating:        in.Rating,
		Comment:       comment,
	}
	saved, dest, err := s.repo.Add(ctx, rv)
	if err != nil {
		return domain.Review{}, domain.Destination{}, fmt.Errorf("service.ReviewService.AddReview: %w", transportError(err))
	}
	return saved, dest, nil
}

// List returns the reviews for a destination, newest first.
func (s *ReviewService) List(ctx context.Context, destinationID uuid.UUID) ([]domain.Review, error) {
	reviews, err := s.repo.ListByDestination(ctx, destinationID)
	if err != nil {
		return nil, fmt.Errorf("service.ReviewService.List: %w", transportError(err))
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
