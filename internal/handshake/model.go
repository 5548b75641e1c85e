// Package handshake implements the GitHub "connect" popup handshake: the
// opener that starts an authorization-code flow, the callback handler that
// validates the redirect and exchanges the code, and the narrowly scoped
// session through which both sides hand data to each other.
package handshake

const (
	// StateKey holds the anti-CSRF value written by the opener before the popup exists.
	StateKey = "github_oauth_state"
	// TokenKey holds the access token written by the callback handler for the opener.
	TokenKey = "github_temp_token"
)

// Outcome is the terminal state reached by a single callback invocation.
type Outcome string

const (
	OutcomeProviderError     Outcome = "provider_error"
	OutcomeStateMismatch     Outcome = "state_mismatch"
	OutcomeNoCode            Outcome = "no_code"
	OutcomeExchangeFailed    Outcome = "exchange_failed"
	OutcomeExchangeSucceeded Outcome = "exchange_succeeded"
	OutcomeUnexpected        Outcome = "unexpected"
	// OutcomeIgnored is reported for any invocation after the first one.
	OutcomeIgnored Outcome = "ignored"
)

// Handshake describes one started authorization-code flow.
type Handshake struct {
	ID      string   // Handshake ID, also the session namespace
	State   string   // State sent to the authorization server
	AuthURL string   // URL the popup has to be pointed at
	Session *Session // Session shared by the opener and the callback handler
}
