package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/seedora/github-connect/internal/config"
	"github.com/seedora/github-connect/internal/exchange"
)

const (
	ExchangeTokenPath = "/api/github/exchange-token"
	PingPath          = "/ping"
)

// createHTTPServer creates the api-server using the given config.
func createHTTPServer(_ context.Context, cfg *config.Config, exchanger exchange.CodeExchanger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("POST "+ExchangeTokenPath, newTraceMiddleware(cfg, "ExchangeToken")(exchange.NewHandler(exchanger)))
	mux.Handle("GET "+PingPath, newTraceMiddleware(cfg, "Ping")(http.HandlerFunc(pingHandler)))

	return &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// StartHTTPServer starts the api-server and blocks until ctx is done.
func StartHTTPServer(ctx context.Context, cfg *config.Config, exchanger exchange.CodeExchanger) error {
	if err := initMeters(ctx, cfg); err != nil {
		return err
	}

	server := createHTTPServer(ctx, cfg, exchanger)

	slogctx.Info(ctx, "Starting a listener", "address", server.Addr)

	// Parse network if the address if provided in the format of network://address.
	// Otherwise use tcp network by default. Integration tests can then bind
	// to a unix socket instead of looking for a free port.
	network := "tcp"
	if idx := strings.IndexRune(server.Addr, ':'); idx != -1 && len(server.Addr) > idx+3 && server.Addr[idx:idx+3] == "://" {
		network = server.Addr[:idx]
		server.Addr = server.Addr[idx+3:]
	}

	listener, err := new(net.ListenConfig).Listen(ctx, network, server.Addr)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed to create a listener")
	}

	return serve(ctx, server, listener, nil, cfg.HTTP.ShutdownTimeout)
}

// ServePopup serves the OAuth redirect on listener at the configured callback
// path until either the popup window closes or ctx is done.
func ServePopup(ctx context.Context, cfg *config.Config, listener net.Listener, callback http.Handler, closed <-chan struct{}) error {
	mux := http.NewServeMux()
	mux.Handle("GET "+cfg.Handshake.CallbackPath, callback)

	// requests inherit ctx so an in-flight exchange ends with the handshake
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	return serve(ctx, server, listener, closed, cfg.HTTP.ShutdownTimeout)
}

func serve(ctx context.Context, server *http.Server, listener net.Listener, stop <-chan struct{}, shutdownTimeout time.Duration) error {
	slogctx.Info(ctx, "A listener started", "address", listener.Addr().String())

	go func() {
		slogctx.Info(ctx, "Serving an HTTP server", "address", listener.Addr().String())
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogctx.Error(ctx, "Failed to serve an HTTP server", "error", err)
		}

		slogctx.Info(ctx, "Stopped an HTTP server")
	}()

	select {
	case <-ctx.Done():
	case <-stop:
	}

	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}

	shutdownCtx, shutdownRelease := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed shutting down HTTP server")
	}

	slogctx.Info(ctx, "Completed graceful shutdown of HTTP server")

	return nil
}
