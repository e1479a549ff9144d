package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/store"
)

// Directory is the read-only list of players questions are resolved against.
// It is loaded once and never modified.
type Directory struct {
	players []store.Player
}

func New(players []store.Player) *Directory {
	return &Directory{players: append([]store.Player(nil), players...)}
}

// Players returns the entries in directory order. Callers must not modify the slice.
func (d *Directory) Players() []store.Player {
	return d.players
}

func (d *Directory) Len() int {
	return len(d.players)
}

// Source lists all players of a directory backend
type Source interface {
	ListPlayers(ctx context.Context) ([]store.Player, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) ([]store.Player, error)

func (f SourceFunc) ListPlayers(ctx context.Context) ([]store.Player, error) {
	return f(ctx)
}

// Cache is the subset of cache.RedisCache the loader needs
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Loader builds a Directory from a source, going through the snapshot cache
// when one is configured
type Loader struct {
	name   string
	source Source
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
}

// NewLoader creates a loader. cache may be nil.
func NewLoader(name string, source Source, c Cache, ttl time.Duration, logger logging.Logger) *Loader {
	return &Loader{
		name:   name,
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("component", "directory", "source", name),
	}
}

// CacheKey is where the snapshot of this loader's source is stored
func (l *Loader) CacheKey() string {
	return "directory:players:" + l.name
}

// Load returns the cached snapshot when present, otherwise lists the source
// and caches the result. Cache failures only cost a source round trip.
func (l *Loader) Load(ctx context.Context) (*Directory, error) {
	if players, ok := l.fromCache(ctx); ok {
		l.logger.Info("loaded player directory from cache", "players", len(players))
		return New(players), nil
	}

	start := time.Now()
	players, err := l.source.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s players: %w", l.name, err)
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("%s directory is empty", l.name)
	}
	l.logger.Info("loaded player directory", "players", len(players), "elapsed", time.Since(start))

	l.toCache(ctx, players)
	return New(players), nil
}

func (l *Loader) fromCache(ctx context.Context) ([]store.Player, bool) {
	if l.cache == nil {
		return nil, false
	}

	raw, err := l.cache.Get(ctx, l.CacheKey())
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			l.logger.Warn("reading directory snapshot failed", "error", err)
		}
		return nil, false
	}

	var players []store.Player
	if err := json.Unmarshal([]byte(raw), &players); err != nil || len(players) == 0 {
		l.logger.Warn("discarding unreadable directory snapshot", "error", err)
		return nil, false
	}
	return players, true
}

func (l *Loader) toCache(ctx context.Context, players []store.Player) {
	if l.cache == nil {
		return
	}

	data, err := json.Marshal(players)
	if err != nil {
		l.logger.Warn("encoding directory snapshot failed", "error", err)
		return
	}
	if err := l.cache.Set(ctx, l.CacheKey(), string(data), l.ttl); err != nil {
		l.logger.Warn("writing directory snapshot failed", "error", err)
	}
}
