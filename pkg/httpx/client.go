package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MehtiSini/HappyTools-sub000/pkg/config"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

const (
	// UserIDHeader carries Config.UserID on every request.
	UserIDHeader = "UserId"

	contentTypeJSON  = "application/json"
	contentTypeProto = "application/x-protobuf"
)

// Client sends JSON (and protobuf) requests to a single base URL, attaching
// the bearer token, the UserId header and Accept-Encoding negotiation.
type Client struct {
	baseURL   string
	userID    string
	chunkSize int
	http      *http.Client
	tokens    TokenSource
}

type clientOptions struct {
	httpClient *http.Client
	transport  http.RoundTripper
	tokens     TokenSource
	noTokens   bool
}

// Option configures NewClient.
type Option func(*clientOptions)

// WithHTTPClient uses hc as is. Compression transports are not added.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithTransport sets the innermost round tripper. Compression transports
// are still layered on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// WithTokenSource overrides the token source built from Config.Token. A nil
// source sends unauthenticated requests.
func WithTokenSource(ts TokenSource) Option {
	return func(o *clientOptions) {
		o.tokens = ts
		o.noTokens = ts == nil
	}
}

// NewClient validates cfg and builds a Client from it.
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("httpx: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if hc == nil {
		rt := o.transport
		if cfg.Compression.Enabled() {
			rt = &DecompressingTransport{Base: &CompressingTransport{
				Base:    rt,
				Level:   cfg.Compression.Level,
				MinSize: cfg.Compression.MinSize,
			}}
		}
		hc = &http.Client{Transport: rt, Timeout: cfg.Timeouts.Request}
	}

	tokens := o.tokens
	if tokens == nil && !o.noTokens && cfg.Token.URL != "" {
		tokenHTTP := &http.Client{Transport: o.transport, Timeout: cfg.Timeouts.TokenFetch}
		tokens = NewCachedTokenSource(FormTokenFetcher(cfg.Token, tokenHTTP), WithSkew(cfg.Token.Skew))
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userID:    cfg.UserID,
		chunkSize: cfg.ChunkSize,
		http:      hc,
		tokens:    tokens,
	}, nil
}

// URL resolves path against the base URL. Absolute URLs are returned as is.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do sends req after adding the standard headers. Responses with a status of
// 400 or above are turned into *HTTPError and their body is closed; on
// success the caller must close the body.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", contentTypeJSON)
	}
	if c.userID != "" {
		req.Header.Set(UserIDHeader, c.userID)
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	zap.L().Debug("httpx: request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized {
			if inv, ok := c.tokens.(interface{ Invalidate() }); ok {
				inv.Invalidate()
			}
		}
		return nil, ParseError(resp)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	return c.Do(ctx, req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		body = b
	}
	resp, err := c.send(ctx, method, path, contentTypeJSON, body)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetJSON sends GET path and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// PostJSON sends in as JSON and decodes the response into out (skipped when nil).
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// PutJSON sends in as JSON with PUT.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

// PatchJSON sends in as JSON with PATCH.
func (c *Client) PatchJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out)
}

// DeleteJSON sends DELETE path and decodes the response into out.
func (c *Client) DeleteJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// GetString sends GET path and returns the body as text.
func (c *Client) GetString(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.Do(ctx, req)
	if err != nil {
		return "", err
	}
	defer closeBody(resp)
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(b), nil
}

// PostProto sends in as a binary protobuf body and unmarshals the response
// into out (skipped when nil).
func (c *Client) PostProto(ctx context.Context, path string, in, out proto.Message) error {
	body, err := proto.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeProto)
	req.Header.Set("Accept", contentTypeProto)
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := proto.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Get sends GET path and decodes the JSON response into a T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.GetJSON(ctx, path, &out)
	return out, err
}

// Post sends in as JSON and decodes the response into a T.
func Post[T any](ctx context.Context, c *Client, path string, in any) (T, error) {
	var out T
	err := c.PostJSON(ctx, path, in, &out)
	return out, err
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		zap.L().Error("httpx: closing response body", zap.Error(err))
	}
}
