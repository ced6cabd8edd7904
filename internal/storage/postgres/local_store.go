package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sports_dashboard/internal/domain"
)

// LocalStore keeps the local fallback payloads, one JSON document per key.
type LocalStore struct {
	db *sqlx.DB
}

func NewLocalStore(db *sqlx.DB) *LocalStore {
	return &LocalStore{db: db}
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	query := `SELECT payload FROM local_fallback WHERE key = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &payload, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("local key %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// GetForUpdate locks the row for key until the surrounding transaction ends.
// A missing key is created as an empty array first so that concurrent first
// writers serialize on the same row.
func (s *LocalStore) GetForUpdate(ctx context.Context, key string) ([]byte, error) {
	if GetTxFromContext(ctx) == nil {
		return nil, errors.New("get for update outside transaction")
	}
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO local_fallback (key, payload)
		VALUES ($1, '[]'::jsonb)
		ON CONFLICT (key) DO NOTHING`, key)
	if err != nil {
		return nil, err
	}

	var payload []byte
	query := `SELECT payload FROM local_fallback WHERE key = $1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, exec, &payload, query, key); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, payload []byte) error {
	query := `
		INSERT INTO local_fallback (key, payload, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, key, string(payload))
	return err
}
