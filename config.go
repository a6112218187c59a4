// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	// EndpointEnv is the environment variable overriding [Config.Endpoint].
	EndpointEnv = "CAMPFIRE_ENDPOINT"

	defaultEndpoint  = "http://localhost:8080"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "campfire-sdk/0.1"
)

// HTTPClient abstracts the [*http.Client] behavior.
//
// By making [*Transport] depend on an abstract client we allow for
// unit testing and for callers that bring their own client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds common configuration for SDK operations.
//
// Pass this to constructor functions to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// Dialer is used by [*ConnectFunc] when [NewTransport] builds its own client.
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// Endpoint is the base address every request URI is appended to.
	//
	// Set by [NewConfig] from $CAMPFIRE_ENDPOINT or "http://localhost:8080".
	Endpoint string

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// HTTPClient, when not nil, replaces the client [NewTransport] would build.
	//
	// Set by [NewConfig] to nil.
	HTTPClient HTTPClient

	// Timeout bounds a whole HTTP exchange. A timeout surfaces as
	// [CodeNetworkError] rather than leaving a request pending.
	//
	// Set by [NewConfig] to 30 seconds.
	Timeout time.Duration

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time

	// UserAgent is sent with every request.
	//
	// Set by [NewConfig] to "campfire-sdk/0.1".
	UserAgent string
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	endpoint := defaultEndpoint
	if value := strings.TrimSpace(os.Getenv(EndpointEnv)); value != "" {
		endpoint = value
	}
	return &Config{
		Dialer:        &net.Dialer{},
		Endpoint:      strings.TrimRight(endpoint, "/"),
		ErrClassifier: DefaultErrClassifier,
		HTTPClient:    nil,
		Timeout:       defaultTimeout,
		TimeNow:       time.Now,
		UserAgent:     defaultUserAgent,
	}
}

// LoadConfig returns [NewConfig] defaults overridden by the TOML file at path.
//
// A missing file is not an error. The environment variable keeps precedence
// over the file for the endpoint, so deployments can redirect a client
// without editing its configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint  string `toml:"endpoint"`
		Timeout   string `toml:"timeout"`
		UserAgent string `toml:"user_agent"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if endpoint := strings.TrimSpace(raw.Endpoint); endpoint != "" && os.Getenv(EndpointEnv) == "" {
		cfg.Endpoint = endpoint
	}
	if timeout := strings.TrimSpace(raw.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("parse config: timeout %q: %w", timeout, err)
		}
		cfg.Timeout = d
	}
	if ua := strings.TrimSpace(raw.UserAgent); ua != "" {
		cfg.UserAgent = ua
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return cfg, nil
}
