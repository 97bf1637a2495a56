package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"sheeets/config"
	"sheeets/internal/adapters/geocode"
	"sheeets/internal/adapters/gviz"
	"sheeets/internal/adapters/httpx"
	"sheeets/internal/repository/postgres"
	"sheeets/internal/services"
	"sheeets/migrations"
)

// geocodeCacheTTL bounds how long a resolved address is reused.
const geocodeCacheTTL = 24 * time.Hour

// app holds what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := config.NewLogger(cfg)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) migrator() (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, a.db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

func (a *app) migrateUp(ctx context.Context) error {
	p, err := a.migrator()
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		a.logger.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration_ms", r.Duration.Milliseconds())
	}
	return nil
}

// newEventCache wires the sheet reader, the optional geocoder and the
// Postgres store into the event cache.
func (a *app) newEventCache() (*services.EventCache, error) {
	if a.cfg.SheetID == "" {
		return nil, fmt.Errorf("SHEET_ID is required")
	}
	feeds, err := config.LoadFeeds(a.cfg.FeedsFile, a.cfg.EventYear)
	if err != nil {
		return nil, err
	}

	upstream := httpx.NewRetryClient(httpx.Options{
		Timeout:  a.cfg.RequestTimeout,
		RetryMax: 2,
		WaitMin:  500 * time.Millisecond,
		WaitMax:  5 * time.Second,
	}, a.logger)
	reader := gviz.NewClient(upstream.StandardClient(), a.cfg.SheetID, a.logger)

	opts := []services.CacheOption{
		services.WithTTL(a.cfg.CacheTTL),
		services.WithRefreshTimeout(2 * time.Minute),
	}
	if a.cfg.GeocoderURL != "" {
		geocoder := geocode.NewNominatim(upstream, a.cfg.GeocoderURL, a.cfg.GeocoderArea)
		opts = append(opts, services.WithGeoResolver(services.NewGeoResolver(geocoder, geocodeCacheTTL, a.logger)))
	}
	return services.NewEventCache(reader, postgres.NewEventRepository(a.db), feeds, a.logger, opts...), nil
}
