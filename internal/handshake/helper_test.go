package handshake_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	slogctx "github.com/veqryn/slog-context"
)

type countingCloser struct {
	n atomic.Int32
}

func (c *countingCloser) Close() { c.n.Add(1) }

func (c *countingCloser) Count() int { return int(c.n.Load()) }

type exchangeRequest struct {
	Method      string
	ContentType string
	Code        string
}

type exchangeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []exchangeRequest
}

// StartExchangeBackend starts a fake token-exchange endpoint answering every
// request with the given status and body.
func StartExchangeBackend(t *testing.T, status int, body string) *exchangeBackend {
	t.Helper()

	b := &exchangeBackend{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		b.mu.Lock()
		b.requests = append(b.requests, exchangeRequest{
			Method:      r.Method,
			ContentType: r.Header.Get("Content-Type"),
			Code:        req.Code,
		})
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(b.Close)

	return b
}

func (b *exchangeBackend) Requests() []exchangeRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]exchangeRequest(nil), b.requests...)
}

// logCapture returns a context whose logger writes into the returned buffer.
func logCapture(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return slogctx.NewCtx(t.Context(), logger), &buf
}
