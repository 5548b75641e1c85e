package serviceerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seedora/github-connect/internal/serviceerr"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name        string
		err         *serviceerr.Error
		expectedMsg string
	}{
		{
			name:        "Error with description",
			err:         &serviceerr.Error{Err: serviceerr.CodeExchangeFailed, Description: "invalid_grant"},
			expectedMsg: "exchange_failed: invalid_grant",
		},
		{
			name:        "Error without description",
			err:         &serviceerr.Error{Err: serviceerr.CodeInvalidRequest},
			expectedMsg: "invalid_request",
		},
		{
			name:        "Predefined error - ErrExchangeFailed",
			err:         serviceerr.ErrExchangeFailed,
			expectedMsg: "exchange_failed: Failed to exchange code for token",
		},
		{
			name:        "Predefined error - ErrMissingToken",
			err:         serviceerr.ErrMissingToken,
			expectedMsg: "missing_token: No access token received",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	t.Run("matches on code regardless of description", func(t *testing.T) {
		err := &serviceerr.Error{Err: serviceerr.CodeExchangeFailed, Description: "invalid_grant"}
		assert.ErrorIs(t, err, serviceerr.ErrExchangeFailed)
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading state: %w", serviceerr.ErrNotFound)
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("matches through join", func(t *testing.T) {
		err := errors.Join(errors.New("valkey nil"), serviceerr.ErrNotFound)
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("different codes do not match", func(t *testing.T) {
		assert.NotErrorIs(t, serviceerr.ErrMissingToken, serviceerr.ErrExchangeFailed)
	})

	t.Run("plain errors do not match", func(t *testing.T) {
		assert.NotErrorIs(t, errors.New("not_found"), serviceerr.ErrNotFound)
	})
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code               serviceerr.Code
		expectedHTTPStatus int
	}{
		{code: serviceerr.CodeInvalidRequest, expectedHTTPStatus: http.StatusBadRequest},
		{code: serviceerr.CodeInvalidGrant, expectedHTTPStatus: http.StatusBadRequest},
		{code: serviceerr.CodeInvalidClient, expectedHTTPStatus: http.StatusBadRequest},
		{code: serviceerr.CodeMissingCode, expectedHTTPStatus: http.StatusBadRequest},
		{code: serviceerr.CodeAccessDenied, expectedHTTPStatus: http.StatusForbidden},
		{code: serviceerr.CodeCSRFMismatch, expectedHTTPStatus: http.StatusForbidden},
		{code: serviceerr.CodeNotFound, expectedHTTPStatus: http.StatusNotFound},
		{code: serviceerr.CodeExchangeFailed, expectedHTTPStatus: http.StatusBadGateway},
		{code: serviceerr.CodeMissingToken, expectedHTTPStatus: http.StatusBadGateway},
		{code: serviceerr.CodeTemporarilyUnavailable, expectedHTTPStatus: http.StatusServiceUnavailable},
		{code: serviceerr.CodeServerError, expectedHTTPStatus: http.StatusInternalServerError},
		{code: serviceerr.Code("unknown_code"), expectedHTTPStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := serviceerr.Error{Err: tt.code}
			assert.Equal(t, tt.expectedHTTPStatus, err.HTTPStatus())
		})
	}
}
