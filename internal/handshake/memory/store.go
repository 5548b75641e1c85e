// Package handshakememory provides an in-process handshake.Store for openers
// that host the callback handler themselves.
package handshakememory

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/seedora/github-connect/internal/handshake"
	"github.com/seedora/github-connect/internal/serviceerr"
)

type Store struct {
	cache *gocache.Cache
}

var _ = handshake.Store(&Store{})

// NewStore creates a store whose entries expire after defaultTTL unless a TTL
// is given on Set. Expired entries are purged every cleanupInterval.
func NewStore(defaultTTL, cleanupInterval time.Duration) *Store {
	return &Store{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", serviceerr.ErrNotFound
	}

	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected value type %T for key %q", v, key)
	}

	return str, nil
}

func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}

	s.cache.Set(key, value, ttl)

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)

	return nil
}
