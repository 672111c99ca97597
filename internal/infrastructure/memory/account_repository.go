package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/repository"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/apperrors"
)

var errUnavailable = errors.New("backend unavailable")

// AccountRepository is the in-memory credential store used in tests.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]entity.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: map[string]entity.Account{}}
}

func (r *AccountRepository) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return apperrors.ErrEmailTaken
		}
	}

	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.accounts[a.ID] = *a
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *AccountRepository) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.ID]; !ok {
		return apperrors.ErrNotFound
	}
	a.UpdatedAt = time.Now()
	r.accounts[a.ID] = *a
	return nil
}

func (r *AccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
