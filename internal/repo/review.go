package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/wayfarer-travel/backend/internal/domain"
)

// ReviewRepo defines the persistence operations for destination reviews.
type ReviewRepo interface {
	// Add stores the review and folds its rating into the destination's
	// running mean and review count as one atomic step. Returns the stored
	// review and the destination as it stands afterwards.
	// Returns domain.ErrNotFound if the destination does not exist.
	Add(ctx context.Context, review domain.Review) (domain.Review, domain.Destination, error)

	// ListByDestination returns a destination's reviews, newest first.
	ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.Review, error)
}

// pgReviewRepo is the Postgres implementation of ReviewRepo.
type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

// Add runs the rating update and the insert in a single statement. Inside
// UPDATE ... SET the right-hand side sees the pre-update row, so the new mean
// is computed from the old count. When the destination is missing the CTE
// yields no row and nothing is inserted.
func (r *pgReviewRepo) Add(ctx context.Context, review domain.Review) (domain.Review, domain.Destination, error) {
	const q = `
		WITH d AS (
			UPDATE destinations
			SET rating        = (rating * total_reviews + @rating::int) / (total_reviews + 1),
			    total_reviews = total_reviews + 1
			WHERE id = @destination_id
			RETURNING ` + destinationColumns + `
		), r AS (
			INSERT INTO reviews (destination_id, user_id, author, rating, comment)
			SELECT d.id, @user_id, @author, @rating::int, @comment FROM d
			RETURNING id, destination_id, user_id, author, rating, comment, created_at
		)
		SELECT r.id, r.destination_id, r.user_id, r.author, r.rating, r.comment, r.created_at,
		       d.id, d.name, d.description, d.image, d.category, d.price, d.duration,
		       d.lat, d.lng, d.rating, d.total_reviews, d.highlights, d.includes, d.created_at
		FROM r, d`

	args := pgx.NamedArgs{
		"destination_id": review.DestinationID,
		"user_id":        review.UserID,
		"author":         review.Author,
		"rating":         review.Rating,
		"comment":        review.Comment,
	}

	var (
		rv           domain.Review
		d            domain.Destination
		rvID, rvDest pgtype.UUID
		rvUser, dID  pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, args).Scan(
		&rvID, &rvDest, &rvUser, &rv.Author, &rv.Rating, &rv.Comment, &rv.CreatedAt,
		&dID, &d.Name, &d.Description, &d.Image, &d.Category, &d.Price, &d.Duration,
		&d.Location.Lat, &d.Location.Lng, &d.Rating, &d.TotalReviews,
		&d.Highlights, &d.Includes, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.Destination{}, fmt.Errorf("repo.ReviewRepo.Add: %w", domain.ErrNotFound)
		}
		return domain.Review{}, domain.Destination{}, fmt.Errorf("repo.ReviewRepo.Add: %w", err)
	}

	rv.ID = uuid.UUID(rvID.Bytes)
	rv.DestinationID = uuid.UUID(rvDest.Bytes)
	rv.UserID = uuid.UUID(rvUser.Bytes)
	d.ID = uuid.UUID(dID.Bytes)
	return rv, d, nil
}

// ListByDestination returns reviews ordered by created_at descending. The id
// tiebreak keeps reviews submitted in the same instant in a stable order.
func (r *pgReviewRepo) ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.Review, error) {
	const q = `
		SELECT id, destination_id, user_id, author, rating, comment, created_at
		FROM reviews
		WHERE destination_id = @destination_id
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"destination_id": destinationID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByDestination: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReviewRepo.ListByDestination: scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByDestination: rows: %w", err)
	}
	return reviews, nil
}

// scanReview maps a single database row into a domain.Review.
func scanReview(s scanner) (domain.Review, error) {
	var (
		rv                 domain.Review
		id, destID, userID pgtype.UUID
	)
	err := s.Scan(&id, &destID, &userID, &rv.Author, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	rv.ID = uuid.UUID(id.Bytes)
	rv.DestinationID = uuid.UUID(destID.Bytes)
	rv.UserID = uuid.UUID(userID.Bytes)
	return rv, nil
}
