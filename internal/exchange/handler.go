package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/seedora/github-connect/internal/serviceerr"
)

const maxRequestSize = 16 << 10

// CodeExchanger is implemented by Service.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (Token, error)
}

type exchangeRequest struct {
	Code string `json:"code"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Handler serves the token-exchange endpoint: a JSON body {"code": "..."} is
// answered with {"access_token": "..."} or, on failure, {"error": "..."}.
type Handler struct {
	service CodeExchanger
}

func NewHandler(service CodeExchanger) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req exchangeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil {
		slogctx.Warn(ctx, "Rejecting a malformed exchange request", "error", err)
		writeError(ctx, w, serviceerr.ErrInvalidRequest)
		return
	}

	token, err := h.service.ExchangeCode(ctx, req.Code)
	if err != nil {
		slogctx.Error(ctx, "Failed to exchange the authorization code", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, token)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var svcErr *serviceerr.Error
	if !errors.As(err, &svcErr) {
		svcErr = serviceerr.ErrServerError
	}

	writeJSON(ctx, w, svcErr.HTTPStatus(), errorResponse{
		Error:            string(svcErr.Err),
		ErrorDescription: svcErr.Description,
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slogctx.Error(ctx, "Failed to write the response", "error", err)
	}
}
