package handshake

import (
	"context"
	"time"
)

// Store is a host-scoped key-value store reachable by both the opener and the
// callback handler. Get returns serviceerr.ErrNotFound for absent keys and
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
