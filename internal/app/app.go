// Package app wires configuration, key sources and the codec for the binaries.
package app

import (
	"context"
	"log/slog"

	"github.com/udisondev/dbdcrypt/internal/codec"
	"github.com/udisondev/dbdcrypt/internal/config"
	"github.com/udisondev/dbdcrypt/internal/db"
	"github.com/udisondev/dbdcrypt/internal/keys"
)

// App holds the loaded key store and the codec built on it.
type App struct {
	Config config.Crypter
	Keys   *keys.Store
	Codec  *codec.Codec

	database *db.DB
}

// New loads access keys from the sources enabled in cfg. A database that
// cannot be reached disables caching instead of failing start-up.
func New(ctx context.Context, cfg config.Crypter) (*App, error) {
	a := &App{Config: cfg}

	var cache keys.Cache
	if cfg.Database.Enabled {
		database, err := openCache(ctx, cfg.Database)
		if err != nil {
			slog.Warn("key cache disabled", "err", err)
		} else {
			a.database = database
			cache = keys.BoundedCache(database.Keys(), cfg.Database.Timeout)
		}
	}

	a.Keys = keys.Load(ctx, Sources(cfg, cache)...)
	a.Codec = codec.New(a.Keys)
	slog.Info("access keys loaded", "count", a.Keys.Len())

	return a, nil
}

// Sources returns the key sources enabled in cfg, lowest priority first.
// cache may be nil.
func Sources(cfg config.Crypter, cache keys.Cache) []keys.Source {
	var sources []keys.Source
	if cfg.StaticKeys {
		sources = append(sources, keys.NewLegacySource())
	}
	if cache != nil {
		sources = append(sources, keys.NewCacheSource(cache))
	}
	if cfg.KeyFeed.Enabled {
		var feed keys.Source = keys.NewFeedSource(cfg.KeyFeed.URL, cfg.KeyFeed.Timeout)
		if cache != nil {
			feed = keys.NewCachingSource(feed, cache)
		}
		sources = append(sources, feed)
	}
	return sources
}

// openCache подключается к БД кэша ключей с таймаутом из конфига:
// недоступный хост лишь ненадолго задерживает старт.
func openCache(ctx context.Context, cfg config.DatabaseConfig) (*db.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = keys.DefaultFeedTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.Open(ctx, cfg.DSN())
}

// Close закрывает пул БД, если он был открыт.
func (a *App) Close() {
	if a.database != nil {
		a.database.Close()
	}
}
