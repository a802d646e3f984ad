package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MehtiSini/HappyTools-sub000/pkg/config"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrEmptyToken is returned when a token endpoint answers without an
// access_token.
var ErrEmptyToken = errors.New("httpx: token response has no access_token")

// TokenSource supplies the bearer token attached to requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// TokenResponse is an OAuth2 token endpoint response. The ".issued" and
// ".expires" fields are the RFC 1123 timestamps some servers add next to
// expires_in.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	UserName     string `json:"userName,omitempty"`
	Issued       string `json:".issued,omitempty"`
	Expires      string `json:".expires,omitempty"`
}

// ExpiresAt returns when the token stops being valid. The ".expires"
// timestamp wins over expires_in, which is counted from issuedAt. A zero
// time means the response carried no expiry.
func (t *TokenResponse) ExpiresAt(issuedAt time.Time) time.Time {
	if t.Expires != "" {
		if at, err := http.ParseTime(t.Expires); err == nil {
			return at
		}
	}
	if t.ExpiresIn > 0 {
		return issuedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// TokenFetcherFunc requests a new token.
type TokenFetcherFunc func(ctx context.Context) (*TokenResponse, error)

// CachedTokenSource fetches a token once and reuses it until it expires
// (minus Skew). Concurrent callers share a single refresh.
type CachedTokenSource struct {
	mu        sync.Mutex
	fetch     TokenFetcherFunc
	token     *TokenResponse
	expiresAt time.Time
	skew      time.Duration
	now       func() time.Time
}

// TokenOption configures a CachedTokenSource.
type TokenOption func(*CachedTokenSource)

// WithSkew refreshes tokens d before they expire.
func WithSkew(d time.Duration) TokenOption {
	return func(s *CachedTokenSource) { s.skew = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(s *CachedTokenSource) { s.now = now }
}

// NewCachedTokenSource returns a TokenSource backed by fetch.
func NewCachedTokenSource(fetch TokenFetcherFunc, opts ...TokenOption) *CachedTokenSource {
	s := &CachedTokenSource{fetch: fetch, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the cached access token, refreshing it first when it is
// missing or expired.
func (s *CachedTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid() {
		return s.token.AccessToken, nil
	}
	if s.fetch == nil {
		return "", errors.New("httpx: token fetcher not configured")
	}
	now := s.now()
	tok, err := s.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", ErrEmptyToken
	}
	s.token = tok
	s.expiresAt = tok.ExpiresAt(now)
	zap.L().Debug("httpx: bearer token refreshed", zap.Time("expires_at", s.expiresAt))
	return tok.AccessToken, nil
}

func (s *CachedTokenSource) valid() bool {
	if s.token == nil {
		return false
	}
	if s.expiresAt.IsZero() {
		return true
	}
	return s.now().Before(s.expiresAt.Add(-s.skew))
}

// Invalidate drops the cached token so the next call fetches a new one.
func (s *CachedTokenSource) Invalidate() {
	s.mu.Lock()
	s.token = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

// Current returns the cached token response, or nil.
func (s *CachedTokenSource) Current() *TokenResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// FormTokenFetcher posts an application/x-www-form-urlencoded grant request
// built from cfg to cfg.URL and decodes the token response. A nil hc uses
// http.DefaultClient.
func FormTokenFetcher(cfg config.TokenConfig, hc *http.Client) TokenFetcherFunc {
	if hc == nil {
		hc = http.DefaultClient
	}
	return func(ctx context.Context) (*TokenResponse, error) {
		form := url.Values{}
		form.Set("grant_type", cfg.GrantType)
		for k, v := range map[string]string{
			"username":      cfg.Username,
			"password":      cfg.Password,
			"client_id":     cfg.ClientID,
			"client_secret": cfg.ClientSecret,
			"scope":         cfg.Scope,
		} {
			if v != "" {
				form.Set(k, v)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		zap.L().Debug("httpx: requesting token", zap.String("url", cfg.URL), zap.String("grant_type", cfg.GrantType))
		resp, err := hc.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, ParseError(resp)
		}
		defer closeBody(resp)

		var tok TokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
			return nil, fmt.Errorf("decode token response: %w", err)
		}
		return &tok, nil
	}
}
