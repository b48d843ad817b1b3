package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/backend/internal/auth"
	"github.com/wayfarer-travel/backend/internal/catalog"
	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRun_IssueToken(t *testing.T) {
	var out bytes.Buffer

	err := run(context.Background(), []string{"--issue-token", "Ops", "--role", "operator", "--jwt-secret", "s3cret"}, &out, discard)
	require.NoError(t, err)

	signer, err := auth.NewSigner("s3cret", auth.DefaultTTL)
	require.NoError(t, err)
	u, err := signer.Parse(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "Ops", u.Name)
	assert.Equal(t, domain.RoleOperator, u.Role)
	assert.NotEqual(t, uuid.Nil, u.ID)
}

func TestParseFlags_Rejections(t *testing.T) {
	tests := map[string][]string{
		"unknown role":   {"--issue-token", "Ada", "--role", "admin"},
		"stray argument": {"extra"},
		"unknown flag":   {"--nope"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseFlags(args)
			assert.Error(t, err)
		})
	}
}

func TestRun_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	err := run(context.Background(), nil, io.Discard, discard)

	assert.ErrorContains(t, err, "database-url")
}

func TestSeed_SkipsExistingNames(t *testing.T) {
	entries := catalog.Default()
	store := repo.NewMemoryStore(entries[:2])
	ctx := context.Background()

	inserted, skipped, err := seed(ctx, store.Destinations(), entries)
	require.NoError(t, err)
	assert.Equal(t, len(entries)-2, inserted)
	assert.Equal(t, 2, skipped)

	inserted, skipped, err = seed(ctx, store.Destinations(), entries)
	require.NoError(t, err)
	assert.Zero(t, inserted, "second run is a no-op")
	assert.Equal(t, len(entries), skipped)
}
