// Package db caches fetched access keys in PostgreSQL so a later run can
// decode content while the key feed is unreachable.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx pool backing the key cache.
type DB struct {
	pool *pgxpool.Pool
}

// New подключается к PostgreSQL и возвращает DB.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close закрывает пул соединений.
func (d *DB) Close() {
	d.pool.Close()
}

// Keys возвращает кэш ключей доступа поверх этого пула.
func (d *DB) Keys() *KeyRepository {
	return NewKeyRepository(d.pool)
}
