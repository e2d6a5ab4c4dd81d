// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver for goose
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/tripplanner/internal/assembler"
	"github.com/pkordes/tripplanner/internal/auth"
	"github.com/pkordes/tripplanner/internal/catalog"
	"github.com/pkordes/tripplanner/internal/config"
	"github.com/pkordes/tripplanner/internal/handler"
	"github.com/pkordes/tripplanner/internal/livedata"
	"github.com/pkordes/tripplanner/internal/llm"
	"github.com/pkordes/tripplanner/internal/middleware"
	"github.com/pkordes/tripplanner/internal/repo"
	"github.com/pkordes/tripplanner/internal/service"
	"github.com/pkordes/tripplanner/migrations"
	"github.com/pkordes/tripplanner/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

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

	ctx := context.Background()

	// --- Persistence ------------------------------------------------------
	// Account mode stores trips per user in Postgres. Without DATABASE_URL
	// the server runs anonymously over a directory of JSON files.
	var (
		trips  repo.TripRepo
		shares repo.ShareRepo
	)
	if cfg.AccountMode() {
		pool, err := openDatabase(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		trips, shares = repo.NewTripRepo(pool), repo.NewShareRepo(pool)
		slog.Info("database connection established", "mode", "account")
	} else {
		local, err := repo.NewLocalTripRepo(cfg.Store.LocalDir)
		if err != nil {
			slog.Error("failed to open local store", "error", err, "dir", cfg.Store.LocalDir)
			os.Exit(1)
		}
		trips, shares = local, repo.LocalShareRepo{}
		slog.Info("using local trip store", "mode", "local", "dir", cfg.Store.LocalDir)
	}

	// --- Planner ----------------------------------------------------------
	var opts []assembler.Option
	if cfg.LLM.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, logger)
		if err != nil {
			slog.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		opts = append(opts, assembler.WithGenerator(gemini))
		slog.Info("generative planning enabled", "model", cfg.LLM.GeminiModel)
	}
	asm := assembler.New(catalog.DefaultTables(), logger, opts...)

	provider := catalog.NewMockProvider(cfg.Catalog.Latency)
	loader := livedata.NewLoader(provider, cfg.Catalog.DefaultOrigin, cfg.Catalog.Timeout)

	planner := service.NewPlannerService(asm, loader, cfg.Planner.DraftCapacity, cfg.Planner.DraftTTL, logger)
	defer planner.Close()
	saved := service.NewSavedTripService(trips, shares, planner)
	export := service.NewExportService(saved)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// CORS runs before body limits so preflights are answered cheaply.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.Origins()))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	routeOpts := handler.RouteOptions{
		PlanLimit: middleware.NewRateLimiter(cfg.Planner.PlanRatePerMinute).Limit,
	}
	if cfg.AccountMode() {
		tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
		r.Use(middleware.Authenticate(tokens))
		routeOpts.TripAuth = middleware.RequireIdentity
	}

	srvHandler := handler.NewServer(planner, saved, export, provider, spec.OpenAPI, logger,
		handler.WithDefaultOrigin(cfg.Catalog.DefaultOrigin))
	srvHandler.Routes(r, routeOpts)

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for the model call plus catalog fallback.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase applies pending migrations and returns a verified pool.
func openDatabase(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	migrator, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	applied, err := migrator.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("migrations applied", "count", len(applied))

	// New() does not open connections immediately; Ping does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
