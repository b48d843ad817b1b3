// Package main is the entry point for the Wayfarer API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/backend/internal/auth"
	"github.com/wayfarer-travel/backend/internal/catalog"
	"github.com/wayfarer-travel/backend/internal/config"
	"github.com/wayfarer-travel/backend/internal/handler"
	"github.com/wayfarer-travel/backend/internal/middleware"
	"github.com/wayfarer-travel/backend/internal/repo"
	"github.com/wayfarer-travel/backend/internal/service"
)

// stores groups the repositories the services run on.
type stores struct {
	destinations repo.DestinationRepo
	reviews      repo.ReviewRepo
	bookings     repo.BookingRepo
}

func main() {
	// --- Config -----------------------------------------------------------
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	// With DATABASE_URL set, destinations, reviews and bookings live in
	// Postgres. Without it the embedded catalog is served from memory.
	var st stores
	if cfg.DatabaseURL != "" {
		if err := repo.MigratePostgres(ctx, cfg.DatabaseURL, logger); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		slog.Info("database connection established")
		st = stores{
			destinations: repo.NewDestinationRepo(pool),
			reviews:      repo.NewReviewRepo(pool),
			bookings:     repo.NewBookingRepo(pool),
		}
	} else {
		mem := repo.NewMemoryStore(catalog.Default())
		st = stores{
			destinations: mem.Destinations(),
			reviews:      mem.Reviews(),
			bookings:     mem.Bookings(),
		}
	}

	itineraryDB, err := repo.OpenItineraryStore(ctx, cfg.ItineraryDBPath)
	if err != nil {
		slog.Error("failed to open itinerary store", "error", err, "path", cfg.ItineraryDBPath)
		os.Exit(1)
	}
	defer itineraryDB.Close()

	// --- Services ---------------------------------------------------------
	signer, err := auth.NewSigner(cfg.JWTSecret, auth.DefaultTTL)
	if err != nil {
		slog.Error("failed to create token signer", "error", err)
		os.Exit(1)
	}
	server := handler.NewServer(handler.Services{
		Destinations: service.NewDestinationService(st.destinations, st.reviews),
		Reviews:      service.NewReviewService(st.reviews),
		Bookings:     service.NewBookingService(st.bookings, st.destinations),
		Itineraries:  service.NewItineraryService(repo.NewItineraryRepo(itineraryDB)),
	}, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: CORS → RequestID → RealIP →
	// Authenticate → Logger → Recoverer → MaxBodySize.
	// CORS runs first so preflight requests are answered before anything else.
	// Authenticate runs before the logger so log lines carry the user id.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Authenticate(signer, logger))
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
