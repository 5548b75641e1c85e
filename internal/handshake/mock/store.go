package handshakemock

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/seedora/github-connect/internal/handshake"
	"github.com/seedora/github-connect/internal/serviceerr"
)

type StoreOption func(*Store)

// Store is an in-memory handshake.Store with injectable failures. TTLs are
// recorded but never enforced.
type Store struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration

	getErr, setErr, deleteErr error
}

func WithValue(key, value string) StoreOption {
	return func(s *Store) { s.values[key] = value }
}
func WithGetError(err error) StoreOption {
	return func(s *Store) { s.getErr = err }
}
func WithSetError(err error) StoreOption {
	return func(s *Store) { s.setErr = err }
}
func WithDeleteError(err error) StoreOption {
	return func(s *Store) { s.deleteErr = err }
}

var _ = handshake.Store(&Store{})

func NewInMemStore(opts ...StoreOption) *Store {
	s := &Store{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return "", s.getErr
	}
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", serviceerr.ErrNotFound
}

func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.values, key)
	delete(s.ttls, key)
	return nil
}

// TGet returns the raw value of a key and whether it is present.
func (s *Store) TGet(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok
}

// TTTL returns the TTL a key was last written with.
func (s *Store) TTTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ttls[key]
}

// TSnapshot returns a copy of every stored value.
func (s *Store) TSnapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Clone(s.values)
}
