package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

var (
	ErrNotFound  = errors.New("sessionstore: session not found")
	ErrInvalidID = errors.New("sessionstore: invalid session id")
	ErrEncoding  = errors.New("sessionstore: failed to encode session")
)

// Store persists session values server-side under an opaque ID.
type Store interface {
	// Load returns the stored values as a fresh container, or ErrNotFound.
	Load(ctx context.Context, id string) (*session.Data, error)
	// Save replaces the values stored under id. A non-positive ttl keeps them
	// until deleted.
	Save(ctx context.Context, id string, values map[string]any, ttl time.Duration) error
	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// NewID returns a random session ID.
func NewID() string {
	return uuid.NewString()
}
