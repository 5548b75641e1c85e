package business

import (
	"context"
	"fmt"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/seedora/github-connect/internal/config"
	"github.com/seedora/github-connect/internal/handshake"
	handshakememory "github.com/seedora/github-connect/internal/handshake/memory"
	handshakevalkey "github.com/seedora/github-connect/internal/handshake/valkey"
)

const memoryCleanupInterval = time.Minute

// handshakeStore returns the store selected by handshake.storage and a func
// releasing its resources.
func handshakeStore(ctx context.Context, cfg *config.Config) (handshake.Store, func(), error) {
	switch cfg.Handshake.Storage {
	case config.StorageMemory:
		slogctx.Debug(ctx, "Using the in-memory handshake store")
		return handshakememory.NewStore(cfg.Handshake.StateTTL, memoryCleanupInterval), func() {}, nil
	case config.StorageValKey:
		client, err := valkeyClientFromConfig(cfg)
		if err != nil {
			return nil, nil, err
		}

		slogctx.Debug(ctx, "Using the valkey handshake store", "prefix", cfg.ValKey.Prefix)
		return handshakevalkey.NewStore(client, cfg.ValKey.Prefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrStorage, cfg.Handshake.Storage)
	}
}

func valkeyClientFromConfig(cfg *config.Config) (valkey.Client, error) {
	valkeyHost, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey host: %w", err)
	}

	valkeyUsername, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.User)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey username: %w", err)
	}

	valkeyPassword, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey password: %w", err)
	}

	valkeyOpts := valkey.ClientOption{
		InitAddress: []string{string(valkeyHost)},
		Username:    string(valkeyUsername),
		Password:    string(valkeyPassword),
	}

	if cfg.ValKey.SecretRef.Type == commoncfg.MTLSSecretType {
		tlsConfig, err := commoncfg.LoadMTLSConfig(&cfg.ValKey.SecretRef.MTLS)
		if err != nil {
			return nil, fmt.Errorf("failed to load valkey mTLS config from secret ref: %w", err)
		}

		valkeyOpts.TLSConfig = tlsConfig
	}

	valkeyClient, err := valkey.NewClient(valkeyOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create a new valkey client: %w", err)
	}

	return valkeyClient, nil
}
