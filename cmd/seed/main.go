// Command seed loads a destination catalog into Postgres and, for local
// development, mints bearer tokens for the API.
//
//	seed --database-url postgres://... [--file catalog.yaml] [--migrate]
//	seed --issue-token Ada [--role operator]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"github.com/wayfarer-travel/backend/internal/auth"
	"github.com/wayfarer-travel/backend/internal/catalog"
	"github.com/wayfarer-travel/backend/internal/config"
	"github.com/wayfarer-travel/backend/internal/domain"
	"github.com/wayfarer-travel/backend/internal/repo"
)

type options struct {
	databaseURL string
	file        string
	migrate     bool
	issueToken  string
	role        string
	jwtSecret   string
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	fs.StringVar(&o.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	fs.StringVarP(&o.file, "file", "f", "", "catalog YAML file (default: the embedded catalog)")
	fs.BoolVar(&o.migrate, "migrate", false, "apply pending migrations before seeding")
	fs.StringVar(&o.issueToken, "issue-token", "", "print a bearer token for a new user with this display name and exit")
	fs.StringVar(&o.role, "role", "", `role for --issue-token ("operator" or empty)`)
	fs.StringVar(&o.jwtSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "token signing key (default: $JWT_SECRET, else the development key)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if o.role != "" && o.role != domain.RoleOperator {
		return options{}, fmt.Errorf("unknown role %q", o.role)
	}
	if o.jwtSecret == "" {
		o.jwtSecret = config.DevJWTSecret
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, log *slog.Logger) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if o.issueToken != "" {
		return issueToken(o, stdout)
	}

	if o.databaseURL == "" {
		return errors.New("--database-url (or DATABASE_URL) is required")
	}
	entries := catalog.Default()
	if o.file != "" {
		if entries, err = catalog.Load(o.file); err != nil {
			return err
		}
	}

	if o.migrate {
		if err := repo.MigratePostgres(ctx, o.databaseURL, log); err != nil {
			return err
		}
	}
	pool, err := pgxpool.New(ctx, o.databaseURL)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	defer pool.Close()

	inserted, skipped, err := seed(ctx, repo.NewDestinationRepo(pool), entries)
	if err != nil {
		return err
	}
	log.Info("catalog seeded", "inserted", inserted, "skipped", skipped)
	return nil
}

// seed inserts every destination whose name is not already in the catalog,
// so running it twice is harmless.
func seed(ctx context.Context, r repo.DestinationRepo, entries []domain.Destination) (inserted, skipped int, err error) {
	for _, d := range entries {
		existing, err := r.FindPaged(ctx, domain.Filter{Search: d.Name, PriceMax: math.MaxFloat64, Page: 1, Limit: domain.MaxLimit})
		if err != nil {
			return inserted, skipped, fmt.Errorf("look up %q: %w", d.Name, err)
		}
		if containsName(existing.Items, d.Name) {
			skipped++
			continue
		}
		if _, err := r.Create(ctx, d); err != nil {
			return inserted, skipped, fmt.Errorf("insert %q: %w", d.Name, err)
		}
		inserted++
	}
	return inserted, skipped, nil
}

func containsName(ds []domain.Destination, name string) bool {
	for _, d := range ds {
		if domain.Fold(d.Name) == domain.Fold(name) {
			return true
		}
	}
	return false
}

func issueToken(o options, stdout io.Writer) error {
	signer, err := auth.NewSigner(o.jwtSecret, auth.DefaultTTL)
	if err != nil {
		return err
	}
	token, err := signer.Sign(domain.User{ID: uuid.New(), Name: o.issueToken, Role: o.role})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}
