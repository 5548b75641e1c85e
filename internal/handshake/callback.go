package handshake

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/google/uuid"

	slogctx "github.com/veqryn/slog-context"

	"github.com/seedora/github-connect/internal/serviceerr"
)

// The placeholder is flushed before the exchange runs; the close script is
// only written once the callback has been handled.
const (
	placeholderPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Connecting to GitHub</title></head>
<body>
<p>Connecting to GitHub&hellip; this window will close automatically.</p>
`
	closeScript = `<script>window.close();</script>
</body>
</html>
`
)

// CallbackHandler handles the redirect of the authorization server back into
// the popup. It runs exactly once per instance and always closes its window.
type CallbackHandler struct {
	session   *Session
	exchanger Exchanger
	window    Closer

	handled atomic.Bool
}

func NewCallbackHandler(session *Session, exchanger Exchanger, window Closer) *CallbackHandler {
	return &CallbackHandler{
		session:   session,
		exchanger: exchanger,
		window:    window,
	}
}

// HandleCallback validates the redirect query and exchanges the code for a
// token. Failures are only logged; the opener learns about them through the
// absence of a token once the window is closed.
func (h *CallbackHandler) HandleCallback(ctx context.Context, query url.Values) (outcome Outcome) {
	if !h.handled.CompareAndSwap(false, true) {
		slogctx.Warn(ctx, "Callback has already been handled; ignoring")
		return OutcomeIgnored
	}

	ctx = slogctx.With(ctx, "handshake_id", h.session.Namespace())

	defer h.window.Close()
	defer func() {
		if r := recover(); r != nil {
			slogctx.Error(ctx, "Unexpected failure while handling the callback", "panic", r)
			outcome = OutcomeUnexpected
		}

		recordOutcome(ctx, outcome)
		slogctx.Info(ctx, "Closing the popup", "outcome", outcome)
	}()
	defer h.discardState(context.WithoutCancel(ctx))

	return h.handle(ctx, query)
}

func (h *CallbackHandler) handle(ctx context.Context, query url.Values) Outcome {
	code := query.Get("code")
	state := query.Get("state")

	if providerErr := query.Get("error"); providerErr != "" {
		slogctx.Error(ctx, "Authorization server reported an error",
			"error", providerErr,
			"error_description", query.Get("error_description"),
		)
		return OutcomeProviderError
	}

	storedState, err := h.session.LoadState(ctx)
	if err != nil && !errors.Is(err, serviceerr.ErrNotFound) {
		slogctx.Error(ctx, "Failed to load the stored state", "error", err)
		return OutcomeUnexpected
	}

	if state == "" || storedState == "" || subtle.ConstantTimeCompare([]byte(state), []byte(storedState)) != 1 {
		slogctx.Error(ctx, "State mismatch, possible CSRF attack",
			"error", serviceerr.ErrCSRFMismatch,
			"has_state", state != "",
			"has_stored_state", storedState != "",
		)
		return OutcomeStateMismatch
	}

	if code == "" {
		slogctx.Error(ctx, "No authorization code received", "error", serviceerr.ErrMissingCode)
		return OutcomeNoCode
	}

	token, err := h.exchanger.Exchange(ctx, code)
	if err != nil {
		slogctx.Error(ctx, "Failed to exchange the authorization code", "error", err)
		if errors.Is(err, serviceerr.ErrExchangeFailed) || errors.Is(err, serviceerr.ErrMissingToken) {
			return OutcomeExchangeFailed
		}

		return OutcomeUnexpected
	}

	if err := h.session.StoreToken(ctx, token); err != nil {
		slogctx.Error(ctx, "Failed to store the access token", "error", err)
		return OutcomeUnexpected
	}

	slogctx.Info(ctx, "Exchanged the authorization code for an access token")

	return OutcomeExchangeSucceeded
}

func (h *CallbackHandler) discardState(ctx context.Context) {
	if err := h.session.DeleteState(ctx); err != nil {
		slogctx.Warn(ctx, "Failed to delete the stored state", "error", err)
	}
}

// ServeHTTP serves the redirect target of the popup.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := slogctx.With(r.Context(), "request_id", uuid.NewString())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, placeholderPage)
	if err := http.NewResponseController(w).Flush(); err != nil {
		slogctx.Debug(ctx, "Could not flush the placeholder page", "error", err)
	}

	h.HandleCallback(ctx, r.URL.Query())

	_, _ = io.WriteString(w, closeScript)
}
