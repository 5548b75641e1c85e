package handshake

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLoadState   = errors.New("loading state from store")
	ErrStoreState  = errors.New("storing state into store")
	ErrDeleteState = errors.New("deleting state from store")
	ErrLoadToken   = errors.New("loading token from store")
	ErrStoreToken  = errors.New("storing token into store")
	ErrDeleteToken = errors.New("deleting token from store")
)

// Session scopes the two handshake keys to a single handshake so concurrent
// handshakes sharing one store never see each other's values.
type Session struct {
	namespace string
	store     Store
	ttl       time.Duration
}

func NewSession(namespace string, store Store, ttl time.Duration) *Session {
	return &Session{
		namespace: namespace,
		store:     store,
		ttl:       ttl,
	}
}

func (s *Session) Namespace() string {
	return s.namespace
}

func (s *Session) key(name string) string {
	if s.namespace == "" {
		return name
	}

	return s.namespace + ":" + name
}

func (s *Session) LoadState(ctx context.Context) (string, error) {
	state, err := s.store.Get(ctx, s.key(StateKey))
	if err != nil {
		return "", errors.Join(ErrLoadState, err)
	}

	return state, nil
}

func (s *Session) StoreState(ctx context.Context, state string) error {
	if err := s.store.Set(ctx, s.key(StateKey), state, s.ttl); err != nil {
		return errors.Join(ErrStoreState, err)
	}

	return nil
}

func (s *Session) DeleteState(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key(StateKey)); err != nil {
		return errors.Join(ErrDeleteState, err)
	}

	return nil
}

func (s *Session) LoadToken(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, s.key(TokenKey))
	if err != nil {
		return "", errors.Join(ErrLoadToken, err)
	}

	return token, nil
}

func (s *Session) StoreToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, s.key(TokenKey), token, s.ttl); err != nil {
		return errors.Join(ErrStoreToken, err)
	}

	return nil
}

func (s *Session) DeleteToken(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key(TokenKey)); err != nil {
		return errors.Join(ErrDeleteToken, err)
	}

	return nil
}
