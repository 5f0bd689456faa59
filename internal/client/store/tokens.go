package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/common"
	"github.com/dmitrijs2005/poputka/internal/dbx"
)

// TokenStore persists the session's token pair.
type TokenStore interface {
	Tokens(ctx context.Context) (models.TokenPair, error)
	AccessToken(ctx context.Context) (string, error)
	SetPair(ctx context.Context, pair models.TokenPair) error
	// Clear overwrites both tokens with empty strings.
	Clear(ctx context.Context) error
}

type SQLiteTokenStore struct {
	db     *sql.DB
	sealer Sealer
}

func NewSQLiteTokenStore(db *sql.DB, sealer Sealer) *SQLiteTokenStore {
	return &SQLiteTokenStore{db: db, sealer: sealer}
}

func (s *SQLiteTokenStore) repo(db dbx.DBTX) Repository {
	return NewSQLiteRepository(db, s.sealer)
}

func (s *SQLiteTokenStore) Tokens(ctx context.Context) (models.TokenPair, error) {
	var pair models.TokenPair

	// both keys are read in one transaction so a concurrent rotation is seen whole
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		var err error
		if pair.AccessToken, err = repo.Get(ctx, common.KeyAccessToken); err != nil {
			return err
		}
		pair.RefreshToken, err = repo.Get(ctx, common.KeyRefreshToken)
		return err
	})
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("read tokens: %w", err)
	}
	return pair, nil
}

func (s *SQLiteTokenStore) AccessToken(ctx context.Context) (string, error) {
	return s.repo(s.db).Get(ctx, common.KeyAccessToken)
}

func (s *SQLiteTokenStore) SetPair(ctx context.Context, pair models.TokenPair) error {
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.KeyAccessToken, pair.AccessToken); err != nil {
			return err
		}
		return repo.Set(ctx, common.KeyRefreshToken, pair.RefreshToken)
	})
	if err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}

func (s *SQLiteTokenStore) Clear(ctx context.Context) error {
	return s.SetPair(ctx, models.TokenPair{})
}
