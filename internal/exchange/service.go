// Package exchange implements the trusted backend that trades a GitHub
// authorization code for an access token on behalf of the popup.
package exchange

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	slogctx "github.com/veqryn/slog-context"

	"github.com/seedora/github-connect/internal/serviceerr"
)

// Token is the part of the GitHub token response handed back to the popup.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

type Service struct {
	oauth *oauth2.Config
}

func NewService(oauthCfg *oauth2.Config) *Service {
	return &Service{oauth: oauthCfg}
}

// GitHub error codes caused by this backend's own OAuth app settings. The
// caller cannot fix them by retrying with another code.
var misconfigurationCodes = map[string]bool{
	"incorrect_client_credentials": true,
	"redirect_uri_mismatch":        true,
}

// ExchangeCode exchanges code at the GitHub token endpoint. Rejections by
// GitHub are reported as *serviceerr.Error carrying GitHub's error code.
func (s *Service) ExchangeCode(ctx context.Context, code string) (Token, error) {
	if code == "" {
		return Token{}, serviceerr.ErrMissingCode
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
			return Token{}, rejection(ctx, retrieveErr)
		}

		return Token{}, fmt.Errorf("exchanging code with github: %w", err)
	}

	scope, _ := tok.Extra("scope").(string)

	return Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Scope:       scope,
	}, nil
}

func rejection(ctx context.Context, retrieveErr *oauth2.RetrieveError) error {
	if misconfigurationCodes[retrieveErr.ErrorCode] {
		slogctx.Error(ctx, "GitHub rejected the OAuth app configuration",
			"error_code", retrieveErr.ErrorCode,
			"error_description", retrieveErr.ErrorDescription,
		)

		return &serviceerr.Error{Err: serviceerr.CodeServerError, Description: retrieveErr.ErrorCode}
	}

	slogctx.Warn(ctx, "GitHub rejected the authorization code",
		"error_code", retrieveErr.ErrorCode,
		"error_description", retrieveErr.ErrorDescription,
	)

	return &serviceerr.Error{Err: serviceerr.CodeInvalidGrant, Description: retrieveErr.ErrorCode}
}
