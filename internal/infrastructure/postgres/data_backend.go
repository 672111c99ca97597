package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/repository"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/apperrors"
)

// DataBackend stores one JSONB document per identity in the user_data table.
type DataBackend struct {
	pool *pgxpool.Pool
}

func NewDataBackend(pool *pgxpool.Pool) *DataBackend {
	return &DataBackend{pool: pool}
}

func (b *DataBackend) Get(ctx context.Context, identityID string) ([]byte, error) {
	var doc []byte

	row := b.pool.QueryRow(ctx, `
		SELECT doc
		FROM user_data
		WHERE identity_id = $1
	`, identityID)

	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Unreachable(identityID, err)
	}

	return doc, nil
}

func (b *DataBackend) Put(ctx context.Context, identityID string, doc []byte) error {
	_, err := b.pool.Exec(ctx, `
		INSERT INTO user_data (identity_id, doc)
		VALUES ($1, $2)
		ON CONFLICT (identity_id) DO UPDATE
		SET doc = EXCLUDED.doc, updated_at = now()
	`, identityID, doc)
	if err != nil {
		return apperrors.Unreachable(identityID, err)
	}

	return nil
}

func (b *DataBackend) Delete(ctx context.Context, identityID string) error {
	_, err := b.pool.Exec(ctx, `
		DELETE FROM user_data
		WHERE identity_id = $1
	`, identityID)
	if err != nil {
		return apperrors.Unreachable(identityID, err)
	}

	return nil
}

var _ repository.DataBackend = (*DataBackend)(nil)
