package main

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/api/rest"
	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/directory"
	"github.com/fortuna/courtside/internal/ingest/bbref"
	"github.com/fortuna/courtside/internal/ingest/nba"
	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/publisher"
	"github.com/fortuna/courtside/internal/query"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

// eventStreamMaxLen bounds the query event stream
const eventStreamMaxLen = 10000

// app holds the wired components shared by every command
type app struct {
	queries *service.QueryService
	players *service.PlayerService
	checks  map[string]rest.HealthCheck
	closers []func() error
	logger  logging.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (_ *app, err error) {
	a := &app{
		checks: make(map[string]rest.HealthCheck),
		logger: logger,
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var db *store.Database
	if cfg.UsesAtlas() {
		db, err = store.NewDatabase(ctx, cfg.AtlasDSN, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.checks["atlas"] = db.HealthCheck
	}

	// Redis is optional; without it the directory is fetched on every start
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("continuing without redis", "error", err)
			redisCache, err = nil, nil
		} else {
			a.closers = append(a.closers, redisCache.Close)
			a.checks["redis"] = redisCache.HealthCheck
		}
	}

	nbaClient := nba.New(cfg.NBAAPIBase, cfg.HTTPTimeout, logger)

	dir, err := loadDirectory(ctx, cfg, nbaClient, db, redisCache, logger)
	if err != nil {
		return nil, err
	}

	provider, err := a.gameLogProvider(cfg, nbaClient, db, logger)
	if err != nil {
		return nil, err
	}

	var pub service.Publisher
	if redisCache != nil {
		pub = publisher.NewRedisStreamPublisher(redisCache.Client(), eventStreamMaxLen)
	}

	interpreter := query.NewInterpreter(dir, provider, cfg.Season, logger)
	a.queries = service.NewQueryService(interpreter, pub, logger)
	a.players = service.NewPlayerService(dir)
	return a, nil
}

func loadDirectory(ctx context.Context, cfg *config.Config, nbaClient *nba.Client, db *store.Database, redisCache *cache.RedisCache, logger logging.Logger) (*directory.Directory, error) {
	var source directory.Source
	switch cfg.Directory {
	case "atlas":
		source = directory.SourceFunc(repository.NewPlayerRepository(db).GetAll)
	default:
		source = directory.SourceFunc(func(ctx context.Context) ([]store.Player, error) {
			return nbaClient.AllPlayers(ctx, cfg.Season)
		})
	}

	var snapshots directory.Cache
	if redisCache != nil {
		snapshots = redisCache
	}

	dir, err := directory.NewLoader(cfg.Directory, source, snapshots, cfg.DirectoryTTL, logger).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading player directory: %w", err)
	}
	return dir, nil
}

func (a *app) gameLogProvider(cfg *config.Config, nbaClient *nba.Client, db *store.Database, logger logging.Logger) (query.GameLogProvider, error) {
	switch cfg.Provider {
	case "atlas":
		return repository.NewStatsRepository(db), nil
	case "bbref":
		var fetcher bbref.Fetcher
		if cfg.BrowserFetch {
			browser := bbref.NewBrowserFetcher(cfg.HTTPTimeout, logger)
			a.closers = append(a.closers, func() error {
				browser.Close()
				return nil
			})
			fetcher = browser
		} else {
			fetcher = bbref.NewHTTPFetcher(cfg.HTTPTimeout)
		}
		return bbref.NewProvider(cfg.BBRefBase, fetcher, logger), nil
	case "nba":
		return nbaClient, nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// Close releases connections in reverse order of creation
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("closing resource failed", "error", err)
		}
	}
	a.closers = nil
}
