package handshake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	slogctx "github.com/veqryn/slog-context"

	"github.com/seedora/github-connect/internal/serviceerr"
	"github.com/seedora/github-connect/internal/statesource"
)

// Opener is the initiating side of the handshake. It writes the state before
// the popup is spawned and reads the token only after the popup has closed.
type Opener struct {
	oauth    *oauth2.Config
	store    Store
	states   statesource.Source
	stateTTL time.Duration
}

func NewOpener(oauthCfg *oauth2.Config, store Store, stateTTL time.Duration) *Opener {
	return &Opener{
		oauth:    oauthCfg,
		store:    store,
		stateTTL: stateTTL,
	}
}

// Begin starts a new handshake whose callback is served at redirectURI.
func (o *Opener) Begin(ctx context.Context, redirectURI string) (Handshake, error) {
	id := uuid.NewString()
	session := NewSession(id, o.store, o.stateTTL)
	state := o.states.State()

	if err := session.StoreState(ctx, state); err != nil {
		return Handshake{}, fmt.Errorf("storing state: %w", err)
	}

	var opts []oauth2.AuthCodeOption
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}

	slogctx.Debug(ctx, "Started a handshake", "handshake_id", id)

	return Handshake{
		ID:      id,
		State:   state,
		AuthURL: o.oauth.AuthCodeURL(state, opts...),
		Session: session,
	}, nil
}

// Await blocks until the popup window is closed and hands off the token the
// callback handler stored. The token is removed from the store once read.
func (o *Opener) Await(ctx context.Context, hs Handshake, closed <-chan struct{}) (string, error) {
	select {
	case <-closed:
	case <-ctx.Done():
		o.Abandon(context.WithoutCancel(ctx), hs)
		return "", fmt.Errorf("waiting for the popup to close: %w", ctx.Err())
	}

	token, err := hs.Session.LoadToken(ctx)
	if errors.Is(err, serviceerr.ErrNotFound) {
		return "", serviceerr.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("loading token: %w", err)
	}

	if err := hs.Session.DeleteToken(ctx); err != nil {
		slogctx.Warn(ctx, "Failed to delete the handed-off token", "handshake_id", hs.ID, "error", err)
	}

	return token, nil
}

// Abandon removes whatever an unfinished handshake left behind. Callers that
// host the popup run it again once the callback can no longer write.
func (o *Opener) Abandon(ctx context.Context, hs Handshake) {
	if err := hs.Session.DeleteState(ctx); err != nil {
		slogctx.Warn(ctx, "Failed to delete the state of an abandoned handshake", "handshake_id", hs.ID, "error", err)
	}
	if err := hs.Session.DeleteToken(ctx); err != nil {
		slogctx.Warn(ctx, "Failed to delete the token of an abandoned handshake", "handshake_id", hs.ID, "error", err)
	}
}
