package business

import (
	"fmt"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/seedora/github-connect/internal/config"
)

// oauthConfig builds the GitHub OAuth client. The secret stays on the
// api-server, so the connect command loads only the client ID.
func oauthConfig(cfg *config.GitHub, withSecret bool) (*oauth2.Config, error) {
	clientID, err := commoncfg.LoadValueFromSourceRef(cfg.ClientID)
	if err != nil {
		return nil, fmt.Errorf("loading github client id: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID: string(clientID),
		Endpoint: github.Endpoint,
		Scopes:   cfg.Scopes,
	}

	if cfg.AuthURL != "" {
		oauthCfg.Endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		oauthCfg.Endpoint.TokenURL = cfg.TokenURL
	}

	if withSecret {
		secret, err := commoncfg.LoadValueFromSourceRef(cfg.ClientSecret)
		if err != nil {
			return nil, fmt.Errorf("loading github client secret: %w", err)
		}

		oauthCfg.ClientSecret = string(secret)
	}

	return oauthCfg, nil
}
