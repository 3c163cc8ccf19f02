package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KeyRepository кэширует ключи доступа в таблице access_keys.
type KeyRepository struct {
	db *pgxpool.Pool
}

// NewKeyRepository создаёт новый KeyRepository.
func NewKeyRepository(db *pgxpool.Pool) *KeyRepository {
	return &KeyRepository{db: db}
}

// LoadAll загружает все закэшированные ключи.
func (r *KeyRepository) LoadAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key_id, key_material FROM access_keys`)
	if err != nil {
		return nil, fmt.Errorf("querying access keys: %w", err)
	}
	defer rows.Close()

	// Feed обычно отдаёт пару десятков ключей
	result := make(map[string]string, 32)
	for rows.Next() {
		var id, material string
		if err := rows.Scan(&id, &material); err != nil {
			return nil, fmt.Errorf("scanning access key row: %w", err)
		}
		result[id] = material
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating access key rows: %w", err)
	}

	return result, nil
}

// SaveAll делает upsert всех entries в одной транзакции.
// Ключи, которых нет в entries, остаются в таблице.
func (r *KeyRepository) SaveAll(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning access key transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Один fetched_at на весь batch
	now := time.Now()
	batch := &pgx.Batch{}
	for id, material := range entries {
		batch.Queue(
			`INSERT INTO access_keys (key_id, key_material, fetched_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (key_id) DO UPDATE
			 SET key_material = EXCLUDED.key_material, fetched_at = EXCLUDED.fetched_at`,
			id, material, now,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upserting access key: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing access key batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing access keys: %w", err)
	}

	slog.Debug("access keys cached", "count", len(entries))
	return nil
}
