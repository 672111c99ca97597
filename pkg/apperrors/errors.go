package apperrors

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned when a record does not exist. For the user data
	// store this is not a failure: callers synthesize defaults instead.
	ErrNotFound = errors.New("record not found")

	// ErrCacheMiss is returned when a key is absent from the cache mirror.
	ErrCacheMiss = redis.Nil

	// ErrInvalidCredentials is returned on a failed credential check.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// StoreError kinds. Every backend failure that reaches a caller carries one.
const (
	// KindUnreachable marks backend connectivity or query failures.
	KindUnreachable = "unreachable"
	// KindMalformed marks stored documents that no longer decode.
	KindMalformed = "malformed-record"
)

// StoreError is a structured failure from the user data store: which identity,
// what kind of failure, and the underlying cause.
type StoreError struct {
	IdentityID string
	Kind       string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s (identity=%s): %v", e.Kind, e.IdentityID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Unreachable wraps a backend connectivity failure for one identity.
func Unreachable(identityID string, err error) error {
	return &StoreError{IdentityID: identityID, Kind: KindUnreachable, Err: err}
}

// Malformed wraps a decode failure of a stored document.
func Malformed(identityID string, err error) error {
	return &StoreError{IdentityID: identityID, Kind: KindMalformed, Err: err}
}

// IsNotFound reports whether err means "record does not exist".
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCacheMiss)
}

// KindOf returns the StoreError kind, or "" when err is not a store failure.
func KindOf(err error) string {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
