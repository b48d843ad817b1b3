package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/wayfarer-travel/backend/internal/domain"
	sqlitemigrations "github.com/wayfarer-travel/backend/migrations/sqlite"
)

// ItineraryRepo is the local durable store for saved itineraries.
// It only ever appends; saved records are never rewritten.
type ItineraryRepo interface {
	// Append stores a finalized itinerary under owner.
	Append(ctx context.Context, owner string, it domain.Itinerary) error

	// List returns owner's saved itineraries in creation order.
	List(ctx context.Context, owner string) ([]domain.Itinerary, error)
}

// OpenItineraryStore opens (creating if needed) the SQLite file at path and
// applies the embedded migrations. Pass ":memory:" for a throwaway store.
//
// The pool is limited to one connection: SQLite allows a single writer, and
// an in-memory database exists only on the connection that created it.
func OpenItineraryStore(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("repo.OpenItineraryStore: path is required")
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenItineraryStore: open: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("repo.OpenItineraryStore: ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, sqlitemigrations.FS)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("repo.OpenItineraryStore: goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("repo.OpenItineraryStore: migrate: %w", err)
	}

	return sqlDB, nil
}

// sqliteItineraryRepo is the SQLite implementation of ItineraryRepo.
// Stops are stored as a JSON document per itinerary.
type sqliteItineraryRepo struct {
	db *sql.DB
}

// NewItineraryRepo constructs an ItineraryRepo over a handle returned by
// OpenItineraryStore.
func NewItineraryRepo(db *sql.DB) ItineraryRepo {
	return &sqliteItineraryRepo{db: db}
}

// Append inserts one itinerary row. A duplicate id fails rather than
// overwriting the existing record.
func (r *sqliteItineraryRepo) Append(ctx context.Context, owner string, it domain.Itinerary) error {
	stops, err := json.Marshal(it.Stops)
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Append: encode stops: %w", err)
	}

	const q = `
		INSERT INTO itineraries (id, owner, title, start_date, end_date, stops, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, q,
		it.ID.String(), owner, it.Title, it.StartDate, it.EndDate, string(stops),
		it.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Append: %w", err)
	}
	return nil
}

// List returns owner's itineraries ordered by created_at, then id.
func (r *sqliteItineraryRepo) List(ctx context.Context, owner string) ([]domain.Itinerary, error) {
	const q = `
		SELECT id, title, start_date, end_date, stops, created_at
		FROM itineraries
		WHERE owner = ?
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.List: %w", err)
	}
	defer rows.Close()

	out := []domain.Itinerary{}
	for rows.Next() {
		var (
			it        domain.Itinerary
			id, stops string
			createdMs int64
		)
		if err := rows.Scan(&id, &it.Title, &it.StartDate, &it.EndDate, &stops, &createdMs); err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.List: scan: %w", err)
		}
		if it.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.List: id: %w", err)
		}
		if err := json.Unmarshal([]byte(stops), &it.Stops); err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.List: decode stops: %w", err)
		}
		it.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.List: rows: %w", err)
	}
	return out, nil
}
