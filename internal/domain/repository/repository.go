package repository

import (
	"context"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
)

// DataBackend is the durable storage behind the user data store: one opaque
// JSON document per identity. Implementations must return ErrNotFound-style
// sentinel behavior through pkg/apperrors so the store can synthesize
// defaults on first read.
type DataBackend interface {
	Get(ctx context.Context, identityID string) ([]byte, error)
	Put(ctx context.Context, identityID string, doc []byte) error
	Delete(ctx context.Context, identityID string) error
}

// AccountRepository defines the credential-store operations.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	Delete(ctx context.Context, id string) error
}
