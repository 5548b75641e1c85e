package business

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/goccy/go-yaml"

	slogctx "github.com/veqryn/slog-context"

	"github.com/seedora/github-connect/internal/business/server"
	"github.com/seedora/github-connect/internal/config"
	"github.com/seedora/github-connect/internal/handshake"
)

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputYAML OutputFormat = "yaml"
)

var ErrOutputFormat = errors.New("output format must be text or yaml")

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputText, OutputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrOutputFormat, s)
	}
}

// Connection is what a completed handshake hands back to the user.
type Connection struct {
	HandshakeID string `yaml:"handshakeID"`
	AccessToken string `yaml:"accessToken"`
}

// ConnectMain runs a handshake and prints the token to stdout.
func ConnectMain(ctx context.Context, cfg *config.Config, format OutputFormat) error {
	return Connect(ctx, cfg, os.Stdout, os.Stderr, format)
}

// Connect starts a handshake, serves the popup callback on a loopback
// listener and waits for the popup to close. The authorize URL is written to
// prompt, the resulting token to out.
func Connect(ctx context.Context, cfg *config.Config, out, prompt io.Writer, format OutputFormat) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	store, closeStore, err := handshakeStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating the handshake store: %w", err)
	}
	defer closeStore()

	return connect(ctx, cfg, store, out, prompt, format)
}

func connect(ctx context.Context, cfg *config.Config, store handshake.Store, out, prompt io.Writer, format OutputFormat) error {
	oauthCfg, err := oauthConfig(&cfg.GitHub, false)
	if err != nil {
		return fmt.Errorf("loading the github oauth config: %w", err)
	}

	listener, err := new(net.ListenConfig).Listen(ctx, "tcp", cfg.Handshake.CallbackAddress)
	if err != nil {
		return fmt.Errorf("listening for the popup callback: %w", err)
	}

	redirectURI := (&url.URL{
		Scheme: "http",
		Host:   listener.Addr().String(),
		Path:   cfg.Handshake.CallbackPath,
	}).String()

	opener := handshake.NewOpener(oauthCfg, store, cfg.Handshake.StateTTL)

	hs, err := opener.Begin(ctx, redirectURI)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("starting the handshake: %w", err)
	}

	ctx = slogctx.With(ctx, "handshake_id", hs.ID)

	window := handshake.NewWindow()
	exchanger := handshake.NewExchangeClient(cfg.Handshake.ExchangeURL, &http.Client{Timeout: cfg.Handshake.ExchangeTimeout})
	callback := handshake.NewCallbackHandler(hs.Session, exchanger, window)

	ctx, cancel := context.WithTimeout(ctx, cfg.Handshake.Timeout)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ServePopup(ctx, cfg, listener, callback, window.Done())
	}()

	_, _ = fmt.Fprintf(prompt, "Open the following URL in your browser to connect your GitHub account:\n\n  %s\n\n", hs.AuthURL)

	token, err := opener.Await(ctx, hs, window.Done())
	cancel()

	if err := <-serveErr; err != nil {
		slogctx.Warn(ctx, "Popup server did not shut down cleanly", "error", err)
	}

	if err != nil {
		// the popup server has drained, nothing can write the token anymore
		opener.Abandon(context.WithoutCancel(ctx), hs)
		return fmt.Errorf("connecting to github: %w", err)
	}

	return writeConnection(out, format, Connection{HandshakeID: hs.ID, AccessToken: token})
}

func writeConnection(w io.Writer, format OutputFormat, conn Connection) error {
	switch format {
	case OutputYAML:
		b, err := yaml.Marshal(conn)
		if err != nil {
			return fmt.Errorf("encoding the connection: %w", err)
		}

		_, err = w.Write(b)
		return err
	default:
		_, err := fmt.Fprintln(w, conn.AccessToken)
		return err
	}
}
