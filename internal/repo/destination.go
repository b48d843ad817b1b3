// Package repo contains all storage access logic for the Wayfarer API.
// Each resource has its own file with an interface and a Postgres
// implementation; memory.go holds the in-process implementations used when no
// database is configured, and itinerary.go the SQLite-backed local store.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/wayfarer-travel/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DestinationRepo defines the persistence operations for the destination catalog.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type DestinationRepo interface {
	// Create inserts a catalog entry and returns the persisted record. Rating
	// and TotalReviews are taken as given so seeded entries keep their history.
	Create(ctx context.Context, d domain.Destination) (domain.Destination, error)

	// GetByID retrieves a single destination by its UUID primary key.
	// Returns domain.ErrNotFound if no destination with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error)

	// FindPaged returns the page of destinations matching f, in catalog
	// (insertion) order, together with the total match count.
	FindPaged(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error)
}

// pgDestinationRepo is the Postgres implementation of DestinationRepo.
type pgDestinationRepo struct {
	db db
}

// NewDestinationRepo constructs a DestinationRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDestinationRepo(db db) DestinationRepo {
	return &pgDestinationRepo{db: db}
}

const destinationColumns = `id, name, description, image, category, price::float8, duration,
		lat, lng, rating, total_reviews, highlights, includes, created_at`

// Create inserts a new destination row and returns the full persisted record.
func (r *pgDestinationRepo) Create(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	const q = `
		INSERT INTO destinations (name, description, image, category, price, duration,
		                          lat, lng, rating, total_reviews, highlights, includes,
		                          name_key, category_key)
		VALUES (@name, @description, @image, @category, @price, @duration,
		        @lat, @lng, @rating, @total_reviews, @highlights, @includes,
		        @name_key, @category_key)
		RETURNING ` + destinationColumns

	args := pgx.NamedArgs{
		"name":          d.Name,
		"description":   d.Description,
		"image":         d.Image,
		"category":      d.Category,
		"price":         d.Price,
		"duration":      d.Duration,
		"lat":           d.Location.Lat,
		"lng":           d.Location.Lng,
		"rating":        d.Rating,
		"total_reviews": d.TotalReviews,
		"highlights":    nonNil(d.Highlights),
		"includes":      nonNil(d.Includes),
		"name_key":      domain.Fold(d.Name),
		"category_key":  domain.Fold(d.Category),
	}

	result, err := scanDestination(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a destination by primary key.
func (r *pgDestinationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error) {
	q := `SELECT ` + destinationColumns + ` FROM destinations WHERE id = @id`

	result, err := scanDestination(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.GetByID: %w", err)
	}
	return result, nil
}

// matchClause mirrors domain.Filter.Matches. The *_key columns and the
// search arguments are folded with domain.Fold, so both stores agree on
// caseless matches such as "ß" and "SS". strpos is used instead of LIKE so
// that '%' and '_' in the search text are matched literally.
const matchClause = `
		WHERE (@search = '' OR strpos(name_key, @search) > 0)
		  AND (@category = '' OR category_key = @category)
		  AND price >= @price_min
		  AND price <= @price_max`

// FindPaged counts the matches, then reads one window of them ordered by
// (created_at, id) so repeated calls page identically.
func (r *pgDestinationRepo) FindPaged(ctx context.Context, f domain.Filter) (domain.PageResult[domain.Destination], error) {
	p := f.Pagination()
	args := pgx.NamedArgs{
		"search":    domain.Fold(f.Search),
		"category":  domain.Fold(f.Category),
		"price_min": f.PriceMin,
		"price_max": f.PriceMax,
		"limit":     p.Limit,
		"offset":    p.Offset(),
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM destinations`+matchClause, args).Scan(&total); err != nil {
		return domain.PageResult[domain.Destination]{}, fmt.Errorf("repo.DestinationRepo.FindPaged: count: %w", err)
	}

	q := `SELECT ` + destinationColumns + ` FROM destinations` + matchClause + `
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return domain.PageResult[domain.Destination]{}, fmt.Errorf("repo.DestinationRepo.FindPaged: %w", err)
	}
	defer rows.Close()

	items := []domain.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return domain.PageResult[domain.Destination]{}, fmt.Errorf("repo.DestinationRepo.FindPaged: scan: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return domain.PageResult[domain.Destination]{}, fmt.Errorf("repo.DestinationRepo.FindPaged: rows: %w", err)
	}

	return domain.NewPageResult(p, items, total), nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanDestination maps a single database row into a domain.Destination.
func scanDestination(s scanner) (domain.Destination, error) {
	var (
		d  domain.Destination
		id pgtype.UUID
	)

	err := s.Scan(&id, &d.Name, &d.Description, &d.Image, &d.Category, &d.Price, &d.Duration,
		&d.Location.Lat, &d.Location.Lng, &d.Rating, &d.TotalReviews,
		&d.Highlights, &d.Includes, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Destination{}, domain.ErrNotFound
		}
		return domain.Destination{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}

// nonNil turns a nil slice into an empty one so NOT NULL array columns accept it.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
