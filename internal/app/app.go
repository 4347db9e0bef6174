package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/config"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/core"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store/memory"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store/mongo"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store/sqlite"
	transporthttp "github.com/phen19/projeto12-batepapo-uol-api/internal/transport/http"
)

const connectTimeout = 10 * time.Second

// App wires together store, core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	reaper          *core.Reaper
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := openStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("driver", cfg.Store.Driver).Msg("store initialized")

	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := core.Options{Clock: clock.New(), StoreTimeout: cfg.StoreTimeout}
	registry := core.NewRegistry(st, opts)
	chatLog := core.NewChatLog(st, registry, opts)
	reaper := core.NewReaper(registry, core.ReaperConfig{
		Interval:   cfg.Presence.SweepInterval,
		StaleAfter: cfg.Presence.StaleAfter,
	}, logger)

	server := transporthttp.NewServer(registry, chatLog, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		reaper:          reaper,
		store:           st,
		log:             logger,
	}, nil
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.SQLitePath)
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Run starts the HTTP server and the presence reaper and blocks until context
// cancellation or a fatal error from either.
func (a *App) Run(ctx context.Context) error {
	defer a.cleanup()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.reaper.Run(gctx)
	})

	g.Go(func() error {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
