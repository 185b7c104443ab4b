// Package session persists live-session records. The relay keeps no
// state across restarts; this is the only durable surface of the server.
package session

import (
	"context"
	"errors"

	"github.com/tutorarc/backend/internal/domain"
)

// ErrNotFound is returned when no record exists for the given id.
var ErrNotFound = errors.New("live session not found")

// Store is the live-session persistence contract. List returns records
// ordered by descending id. Create must allocate strictly increasing,
// collision-free ids under concurrent calls.
type Store interface {
	Create(ctx context.Context, userURL string) (domain.LiveSession, error)
	List(ctx context.Context) ([]domain.LiveSession, error)
	Get(ctx context.Context, id int64) (domain.LiveSession, error)
	Update(ctx context.Context, id int64, userURL string) (domain.LiveSession, error)
	Delete(ctx context.Context, id int64) (domain.LiveSession, error)
	Ping(ctx context.Context) error
}
