package business

import (
	"context"
	"fmt"

	"github.com/seedora/github-connect/internal/business/server"
	"github.com/seedora/github-connect/internal/config"
	"github.com/seedora/github-connect/internal/exchange"
)

// Main starts the api-server hosting the token-exchange endpoint.
func Main(ctx context.Context, cfg *config.Config) error {
	if err := cfg.GitHub.Validate(); err != nil {
		return fmt.Errorf("validating github config: %w", err)
	}

	oauthCfg, err := oauthConfig(&cfg.GitHub, true)
	if err != nil {
		return fmt.Errorf("loading the github oauth config: %w", err)
	}

	return server.StartHTTPServer(ctx, cfg, exchange.NewService(oauthCfg))
}
