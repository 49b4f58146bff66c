// Package tripgate parses server flags and starts the trip engine API.
package tripgate

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/anchorline/tripgate/internal/api/rest"
	"github.com/anchorline/tripgate/internal/collaborators/local"
	"github.com/anchorline/tripgate/internal/collaborators/weather"
	"github.com/anchorline/tripgate/internal/platform/config"
	"github.com/anchorline/tripgate/internal/platform/otel"
	"github.com/anchorline/tripgate/internal/platform/timeouts"
	"github.com/anchorline/tripgate/internal/storage/sqlite"
	"github.com/anchorline/tripgate/internal/trip/catalog"
	"github.com/anchorline/tripgate/internal/trip/service"
)

// Config holds server command configuration.
type Config struct {
	Addr                    string `env:"TRIPGATE_ADDR" envDefault:":8080"`
	DBPath                  string `env:"TRIPGATE_DB_PATH" envDefault:"tripgate.db"`
	CatalogPath             string `env:"TRIPGATE_CATALOG_PATH"`
	WeatherURL              string `env:"TRIPGATE_WEATHER_URL"`
	PassengerVisibilityTier int    `env:"TRIPGATE_PASSENGER_VISIBILITY_TIER" envDefault:"2"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The API listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "Path to the checklist catalog YAML (built-in default when empty)")
	fs.StringVar(&cfg.WeatherURL, "weather-url", cfg.WeatherURL, "Marine weather provider base URL (suggestions disabled when empty)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the trip engine API and serves until the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, "tripgate")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("load checklist catalog: %w", err)
		}
	}

	var provider service.WeatherProvider
	if cfg.WeatherURL != "" {
		provider = weather.NewClient(cfg.WeatherURL)
	}

	directory := local.NewDirectory(store)
	svc := service.New(
		service.Stores{
			Trips:      store,
			Crew:       store,
			Manifest:   store,
			Checklists: store,
			Risks:      store,
			OpsSignals: store,
		},
		service.Collaborators{
			Certifications: directory,
			Approvals:      directory,
			Attendance:     directory,
			Handover:       directory,
			Tasks:          directory,
			Expenses:       directory,
		},
		cat,
		provider,
		service.Config{PassengerVisibilityTier: cfg.PassengerVisibilityTier},
	)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           rest.NewServer(svc).Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
