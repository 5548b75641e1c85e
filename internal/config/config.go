// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP HTTPServer `yaml:"http"`

	GitHub    GitHub    `yaml:"github"`
	Handshake Handshake `yaml:"handshake"`
	ValKey    ValKey    `yaml:"valkey"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

// GitHub configures the OAuth application. The client secret is only needed
// by the api-server, the connect command only uses the client ID.
type GitHub struct {
	ClientID     commoncfg.SourceRef `yaml:"clientID"`
	ClientSecret commoncfg.SourceRef `yaml:"clientSecret"`
	Scopes       []string            `yaml:"scopes"`
	// AuthURL and TokenURL override the github.com endpoints, e.g. for GitHub Enterprise.
	AuthURL  string `yaml:"authURL"`
	TokenURL string `yaml:"tokenURL"`
}

type StorageType string

const (
	StorageMemory StorageType = "memory"
	StorageValKey StorageType = "valkey"
)

type Handshake struct {
	ExchangeURL     string        `yaml:"exchangeURL" default:"http://localhost:8080/api/github/exchange-token"`
	CallbackAddress string        `yaml:"callbackAddress" default:"127.0.0.1:0"`
	CallbackPath    string        `yaml:"callbackPath" default:"/callback"`
	Storage         StorageType   `yaml:"storage" default:"memory"`
	StateTTL        time.Duration `yaml:"stateTTL" default:"10m"`
	Timeout         time.Duration `yaml:"timeout" default:"5m"`
	ExchangeTimeout time.Duration `yaml:"exchangeTimeout" default:"30s"`
}

// ValKey configures the shared handshake store used when handshake.storage is valkey.
type ValKey struct {
	Host      commoncfg.SourceRef `yaml:"host"`
	User      commoncfg.SourceRef `yaml:"user"`
	Password  commoncfg.SourceRef `yaml:"password"`
	SecretRef commoncfg.SecretRef `yaml:"secretRef"`
	Prefix    string              `yaml:"prefix" default:"github-connect"`
}

var (
	ErrExchangeURL  = errors.New("handshake.exchangeURL must be an absolute http(s) URL")
	ErrCallbackPath = errors.New("handshake.callbackPath must start with /")
	ErrStorage      = errors.New("handshake.storage must be memory or valkey")
	ErrStateTTL     = errors.New("handshake.stateTTL must be positive")
	ErrTimeout      = errors.New("handshake.timeout must be positive")
	ErrEndpointURL  = errors.New("github endpoint overrides must be absolute URLs")
)

func (c *Config) Validate() error {
	return errors.Join(c.Handshake.Validate(), c.GitHub.Validate())
}

func (h Handshake) Validate() error {
	var errs []error

	u, err := url.Parse(h.ExchangeURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrExchangeURL, h.ExchangeURL))
	}

	if !strings.HasPrefix(h.CallbackPath, "/") {
		errs = append(errs, ErrCallbackPath)
	}

	switch h.Storage {
	case StorageMemory, StorageValKey:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrStorage, h.Storage))
	}

	if h.StateTTL <= 0 {
		errs = append(errs, ErrStateTTL)
	}

	if h.Timeout <= 0 {
		errs = append(errs, ErrTimeout)
	}

	return errors.Join(errs...)
}

func (g GitHub) Validate() error {
	for _, raw := range []string{g.AuthURL, g.TokenURL} {
		if raw == "" {
			continue
		}

		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("%w: %q", ErrEndpointURL, raw)
		}
	}

	return nil
}
