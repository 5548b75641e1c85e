// Package serviceerr holds the error codes shared by the token-exchange
// backend and the GitHub connect handshake.
package serviceerr

import (
	"errors"
	"net/http"
)

type Code string

const (
	// RFC6749 error codes
	CodeInvalidRequest         Code = "invalid_request"
	CodeAccessDenied           Code = "access_denied"
	CodeServerError            Code = "server_error"
	CodeTemporarilyUnavailable Code = "temporarily_unavailable"
	CodeInvalidClient          Code = "invalid_client"
	CodeInvalidGrant           Code = "invalid_grant"

	// Custom error codes
	CodeUnknown        Code = "unknown"
	CodeNotFound       Code = "not_found"
	CodeProviderError  Code = "provider_error"
	CodeCSRFMismatch   Code = "csrf_mismatch"
	CodeMissingCode    Code = "missing_code"
	CodeExchangeFailed Code = "exchange_failed"
	CodeMissingToken   Code = "missing_token"
	CodeNoToken        Code = "no_token"
)

// Error is a coded error. Two errors match with errors.Is when their codes are equal.
type Error struct {
	Err         Code
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Err == e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidRequest, CodeInvalidClient, CodeInvalidGrant, CodeMissingCode:
		return http.StatusBadRequest
	case CodeAccessDenied, CodeCSRFMismatch:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeExchangeFailed, CodeMissingToken, CodeProviderError:
		return http.StatusBadGateway
	case CodeTemporarilyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrInvalidRequest = &Error{Err: CodeInvalidRequest}
	ErrServerError    = &Error{Err: CodeServerError}
	ErrInvalidGrant   = &Error{Err: CodeInvalidGrant}

	ErrUnknown        = &Error{Err: CodeUnknown, Description: "unknown error"}
	ErrNotFound       = &Error{Err: CodeNotFound, Description: "not found"}
	ErrProviderError  = &Error{Err: CodeProviderError, Description: "authorization server reported an error"}
	ErrCSRFMismatch   = &Error{Err: CodeCSRFMismatch, Description: "state mismatch"}
	ErrMissingCode    = &Error{Err: CodeMissingCode, Description: "no authorization code received"}
	ErrExchangeFailed = &Error{Err: CodeExchangeFailed, Description: "Failed to exchange code for token"}
	ErrMissingToken   = &Error{Err: CodeMissingToken, Description: "No access token received"}
	ErrNoToken        = &Error{Err: CodeNoToken, Description: "popup closed without a token"}
)
