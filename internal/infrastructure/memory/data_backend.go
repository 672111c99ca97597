package memory

import (
	"context"
	"sync"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/repository"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/apperrors"
)

// DataBackend keeps serialized documents in process memory. It hands out
// copies of the stored bytes, so callers can never alias each other's state.
// Used by tests and by local runs without postgres.
type DataBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte

	// FailNext, when set, makes the next operation fail as unreachable.
	// Test hook for the backend-failure paths.
	FailNext bool
}

func NewDataBackend() *DataBackend {
	return &DataBackend{docs: map[string][]byte{}}
}

func (b *DataBackend) failing() bool {
	if b.FailNext {
		b.FailNext = false
		return true
	}
	return false
}

func (b *DataBackend) Get(_ context.Context, identityID string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failing() {
		return nil, apperrors.Unreachable(identityID, errUnavailable)
	}

	doc, ok := b.docs[identityID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func (b *DataBackend) Put(_ context.Context, identityID string, doc []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failing() {
		return apperrors.Unreachable(identityID, errUnavailable)
	}

	stored := make([]byte, len(doc))
	copy(stored, doc)
	b.docs[identityID] = stored
	return nil
}

func (b *DataBackend) Delete(_ context.Context, identityID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failing() {
		return apperrors.Unreachable(identityID, errUnavailable)
	}

	delete(b.docs, identityID)
	return nil
}

// SetRaw stores a document verbatim, bypassing Put's copy. Test hook for
// seeding malformed records.
func (b *DataBackend) SetRaw(identityID string, doc []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[identityID] = doc
}

// Len reports how many identities hold a document.
func (b *DataBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.docs)
}

var _ repository.DataBackend = (*DataBackend)(nil)
