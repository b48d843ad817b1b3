package repo_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

// destinationStores returns a constructor per DestinationRepo
// implementation. The Postgres one skips without TEST_DATABASE_URL.
func destinationStores() map[string]func(t *testing.T) repo.DestinationRepo {
	return map[string]func(t *testing.T) repo.DestinationRepo{
		"memory": func(*testing.T) repo.DestinationRepo {
			return repo.NewMemoryStore(nil).Destinations()
		},
		"postgres": func(t *testing.T) repo.DestinationRepo {
			return repo.NewDestinationRepo(newTestTx(t))
		},
	}
}

func TestDestinationRepos_AgreeOnCaselessMatching(t *testing.T) {
	tests := []struct {
		search, category string
		want             []string
	}{
		{"STRASSE", "", []string{"Hotel Straße"}},
		{"straße", "", []string{"Hotel Straße"}},
		{"REYKJAVÍK", "", []string{"Reykjavík, Iceland"}},
		{"", "ADVENTURE", []string{"Reykjavík, Iceland"}},
	}
	for name, newRepo := range destinationStores() {
		t.Run(name, func(t *testing.T) {
			r := newRepo(t)
			mustSeed(t, r,
				destinationFixture("Hotel Straße", "city", 300),
				destinationFixture("Reykjavík, Iceland", "Adventure", 2400),
			)

			for _, tc := range tests {
				got, err := r.FindPaged(context.Background(), domain.Filter{
					Search: tc.search, Category: tc.category, PriceMax: 10000, Page: 1, Limit: 10,
				})
				require.NoError(t, err)
				var names []string
				for _, d := range got.Items {
					names = append(names, d.Name)
				}
				assert.Equal(t, tc.want, names, "search=%q category=%q", tc.search, tc.category)
			}
		})
	}
}

func TestDestinationRepos_HugePageIsEmpty(t *testing.T) {
	for name, newRepo := range destinationStores() {
		t.Run(name, func(t *testing.T) {
			r := newRepo(t)
			mustSeed(t, r, destinationFixture("Paris, France", "city", 1200))

			got, err := r.FindPaged(context.Background(), domain.Filter{
				PriceMax: 10000, Page: math.MaxInt, Limit: domain.MaxLimit,
			})

			require.NoError(t, err)
			assert.NotNil(t, got.Items)
			assert.Empty(t, got.Items)
			assert.Equal(t, 1, got.Total)
		})
	}
}
