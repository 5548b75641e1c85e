// Package handshakevalkey provides a handshake.Store shared through ValKey so
// that the opener and the callback handler may live in separate processes.
package handshakevalkey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/seedora/github-connect/internal/handshake"
	"github.com/seedora/github-connect/internal/serviceerr"
)

type Store struct {
	valkey valkey.Client
	prefix string
}

var _ = handshake.Store(&Store{})

func NewStore(valkeyClient valkey.Client, prefix string) *Store {
	prefix = strings.TrimSuffix(prefix, ":")
	return &Store{
		valkey: valkeyClient,
		prefix: prefix,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(s.key(key)).Build()).ToString()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return "", errors.Join(valkeyErr, serviceerr.ErrNotFound)
		}

		return "", fmt.Errorf("executing get command: %w", err)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	builder := s.valkey.B().Set().Key(s.key(key)).Value(value)

	var err error
	if ttl > 0 {
		err = s.valkey.Do(ctx, builder.PxMilliseconds(ttl.Milliseconds()).Build()).Error()
	} else {
		err = s.valkey.Do(ctx, builder.Build()).Error()
	}
	if err != nil {
		return fmt.Errorf("executing set command: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(s.key(key)).Build()).Error(); err != nil {
		return fmt.Errorf("executing del command: %w", err)
	}

	return nil
}

func (s *Store) key(key string) string {
	if s.prefix == "" {
		return key
	}

	return s.prefix + ":" + key
}
