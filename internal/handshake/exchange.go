package handshake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/seedora/github-connect/internal/serviceerr"
)

const maxExchangeResponseSize = 1 << 20

// Exchanger trades an authorization code for an access token.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

type exchangeRequest struct {
	Code string `json:"code"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// ExchangeClient calls the trusted backend exchange endpoint. A single attempt
// is made per call; timeouts are those of the underlying http.Client.
type ExchangeClient struct {
	endpoint string
	client   *http.Client
}

var _ Exchanger = (*ExchangeClient)(nil)

func NewExchangeClient(endpoint string, client *http.Client) *ExchangeClient {
	if client == nil {
		client = http.DefaultClient
	}

	return &ExchangeClient{
		endpoint: endpoint,
		client:   client,
	}
}

func (c *ExchangeClient) Exchange(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(exchangeRequest{Code: code})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxExchangeResponseSize))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var failure exchangeResponse
		// An unreadable failure body falls back to the generic message.
		_ = dec.Decode(&failure)
		if failure.Error == "" {
			return "", serviceerr.ErrExchangeFailed
		}

		return "", &serviceerr.Error{Err: serviceerr.CodeExchangeFailed, Description: failure.Error}
	}

	var tokens exchangeResponse
	if err := dec.Decode(&tokens); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if tokens.AccessToken == "" {
		return "", serviceerr.ErrMissingToken
	}

	return tokens.AccessToken, nil
}
