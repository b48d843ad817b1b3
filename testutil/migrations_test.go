package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/backend/migrations"
	sqlitemigrations "github.com/wayfarer-travel/backend/migrations/sqlite"
	"github.com/wayfarer-travel/backend/testutil"
)

var postgresTables = []string{"destinations", "reviews", "bookings"}

// TestMigrations_Postgres applies every migration, checks the tables exist,
// rolls everything back and checks they are gone. Skipped without
// TEST_DATABASE_URL.
func TestMigrations_Postgres(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's TestMain may already have migrated this shared
	// database; start from version 0 so the test is order-independent.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results)
	for _, table := range postgresTables {
		assert.True(t, postgresTableExists(t, db, table), "expected table %q", table)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	for _, table := range postgresTables {
		assert.False(t, postgresTableExists(t, db, table), "expected table %q to be dropped", table)
	}

	// Leave the schema in place for packages that run after this one.
	_, err = provider.Up(ctx)
	require.NoError(t, err, "goose re-up")
}

// TestMigrations_SQLite checks the itinerary store schema round-trips.
func TestMigrations_SQLite(t *testing.T) {
	db := testutil.NewItineraryDB(t)
	ctx := context.Background()

	assert.True(t, sqliteTableExists(t, db, "itineraries"))

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sqlitemigrations.FS)
	require.NoError(t, err)
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err)

	assert.False(t, sqliteTableExists(t, db, "itineraries"))
}

func postgresTableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&exists))
	return exists
}

func sqliteTableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	const q = `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&n))
	return n > 0
}
