package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/poputka/internal/common"
	"github.com/dmitrijs2005/poputka/internal/dbx"
)

// Repository is a string key-value store. Get returns "" for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

type SQLiteRepository struct {
	db     dbx.DBTX
	sealer Sealer
}

func NewSQLiteRepository(db dbx.DBTX, sealer Sealer) *SQLiteRepository {
	return &SQLiteRepository{db: db, sealer: sealer}
}

func checkKey(key string) error {
	if !common.IsKnownKey(key) {
		return fmt.Errorf("%w: %q", common.ErrUnknownKey, key)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}

	var sealed []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}

	plain, err := r.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to open kv[%s]: %w", key, err)
	}
	return string(plain), nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	sealed, err := r.sealer.Seal([]byte(value))
	if err != nil {
		return fmt.Errorf("failed to seal kv[%s]: %w", key, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, sealed)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}
