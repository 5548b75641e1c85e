package handshake_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedora/github-connect/internal/handshake"
	"github.com/seedora/github-connect/internal/serviceerr"
)

func TestExchangeClient_Exchange(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantToken string
		wantErr   error
		wantMsg   string
	}{
		{
			name:      "Success",
			status:    http.StatusOK,
			body:      `{"access_token":"tok_1"}`,
			wantToken: "tok_1",
		},
		{
			name:      "Success with created status",
			status:    http.StatusCreated,
			body:      `{"access_token":"tok_1","scope":"repo"}`,
			wantToken: "tok_1",
		},
		{
			name:    "Failure with error field",
			status:  http.StatusBadRequest,
			body:    `{"error":"invalid_grant"}`,
			wantErr: serviceerr.ErrExchangeFailed,
			wantMsg: "exchange_failed: invalid_grant",
		},
		{
			name:    "Failure without error field",
			status:  http.StatusBadGateway,
			body:    `{}`,
			wantErr: serviceerr.ErrExchangeFailed,
			wantMsg: "exchange_failed: Failed to exchange code for token",
		},
		{
			name:    "Failure with non JSON body",
			status:  http.StatusInternalServerError,
			body:    `Internal Server Error`,
			wantErr: serviceerr.ErrExchangeFailed,
			wantMsg: "exchange_failed: Failed to exchange code for token",
		},
		{
			name:    "Redirect status is a failure",
			status:  http.StatusNotModified,
			body:    ``,
			wantErr: serviceerr.ErrExchangeFailed,
		},
		{
			name:    "Success without token",
			status:  http.StatusOK,
			body:    `{"access_token":""}`,
			wantErr: serviceerr.ErrMissingToken,
			wantMsg: "missing_token: No access token received",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := StartExchangeBackend(t, tt.status, tt.body)
			client := handshake.NewExchangeClient(backend.URL, backend.Client())

			token, err := client.Exchange(t.Context(), "abc123")

			reqs := backend.Requests()
			require.Len(t, reqs, 1, "Exactly one attempt must be made")
			assert.Equal(t, "abc123", reqs[0].Code)
			assert.Equal(t, http.MethodPost, reqs[0].Method)
			assert.Equal(t, "application/json", reqs[0].ContentType)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestExchangeClient_Timeout(t *testing.T) {
	backend := StartExchangeBackend(t, http.StatusOK, `{"access_token":"tok_1"}`)
	backend.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	client := handshake.NewExchangeClient(backend.URL, &http.Client{Timeout: 20 * time.Millisecond})

	_, err := client.Exchange(t.Context(), "abc123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, serviceerr.ErrExchangeFailed)
}
