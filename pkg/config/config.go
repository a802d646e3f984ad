package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	// GrantPassword is the OAuth2 resource-owner password grant.
	GrantPassword = "password"
	// GrantClientCredentials is the OAuth2 client-credentials grant.
	GrantClientCredentials = "client_credentials"

	// DefaultChunkSize is the number of items posted per request by PostChunk.
	DefaultChunkSize = 100
)

var (
	// ErrBaseURLRequired is returned by Validate when BaseURL is empty.
	ErrBaseURLRequired = errors.New("base URL is required")
	// ErrInvalidURL is returned by Validate when a configured URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid URL")
)

// Config holds all settings required to build an httpx.Client.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// BaseURL is prepended to every relative request path (required).
	BaseURL string `json:"base_url" yaml:"base_url"`
	// UserID is sent in the UserId header on every request when not empty.
	UserID string `json:"user_id" yaml:"user_id"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// ChunkSize is the default chunk length for PostChunk. Default: 100.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
	// Token configures the bearer-token endpoint. Leave URL empty to send
	// unauthenticated requests.
	Token TokenConfig `json:"token" yaml:"token"`
	// Compression configures gzip/deflate negotiation.
	Compression CompressionConfig `json:"compression" yaml:"compression"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// TokenConfig describes where and how a bearer token is obtained.
type TokenConfig struct {
	URL          string `json:"url" yaml:"url"`
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
	Username     string `json:"username" yaml:"username"`
	Password     string `json:"password" yaml:"password"`
	Scope        string `json:"scope" yaml:"scope"`
	// GrantType defaults to "password" when Username is set, otherwise
	// "client_credentials".
	GrantType string `json:"grant_type" yaml:"grant_type"`
	// Skew is subtracted from the token expiry so that a token is refreshed
	// slightly before the server rejects it.
	Skew time.Duration `json:"skew" yaml:"skew"`
}

// CompressionConfig controls Accept-Encoding negotiation and request body
// compression.
type CompressionConfig struct {
	// Disabled turns off Accept-Encoding and request body compression.
	Disabled bool `json:"disabled" yaml:"disabled"`
	// Level is the gzip/deflate level; 0 selects the library default.
	Level int `json:"level" yaml:"level"`
	// MinSize is the smallest request body (bytes) that gets compressed.
	// Zero disables request body compression.
	MinSize int `json:"min_size" yaml:"min_size"`
}

// Enabled reports whether compression negotiation is on.
func (c CompressionConfig) Enabled() bool { return !c.Disabled }

// Timeouts controls operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Request    time.Duration `json:"request" yaml:"request"`         // single HTTP request
	TokenFetch time.Duration `json:"token_fetch" yaml:"token_fetch"` // bearer token request
	Publish    time.Duration `json:"publish" yaml:"publish"`         // event bus publish
}

// Validate normalizes the configuration by applying implicit defaults for
// ChunkSize, the token grant type and Timeouts, and verifies that BaseURL is
// provided and that every configured URL parses.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}
	if err := checkURL(c.BaseURL); err != nil {
		return err
	}
	if c.Token.URL != "" {
		if err := checkURL(c.Token.URL); err != nil {
			return err
		}
	}

	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}

	if c.Token.GrantType == "" {
		if c.Token.Username != "" {
			c.Token.GrantType = GrantPassword
		} else {
			c.Token.GrantType = GrantClientCredentials
		}
	}

	c.Timeouts = c.Timeouts.WithDefaults()
	return nil
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Request:    100s
//	TokenFetch: 30s
//	Publish:    30s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Request == 0 {
		tt.Request = 100 * time.Second
	}
	if tt.TokenFetch == 0 {
		tt.TokenFetch = 30 * time.Second
	}
	if tt.Publish == 0 {
		tt.Publish = 30 * time.Second
	}
	return tt
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w %q: scheme must be http or https", ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w %q: missing host", ErrInvalidURL, raw)
	}
	return nil
}
