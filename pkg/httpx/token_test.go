package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MehtiSini/HappyTools-sub000/internal/testutil/httpbuf"
	"github.com/MehtiSini/HappyTools-sub000/pkg/config"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCachedTokenSource_RefreshesOnlyAfterExpiry(t *testing.T) {
	var requests atomic.Int32
	srv := httpbuf.StartServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		_, _ = io.WriteString(w, `{"access_token":"t`+string(rune('0'+n))+`","expires_in":60}`)
	}))

	clock := &fakeClock{now: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)}
	cfg := config.TokenConfig{URL: srv.URL, GrantType: config.GrantClientCredentials, ClientID: "app"}
	ts := NewCachedTokenSource(FormTokenFetcher(cfg, srv.Client()), WithClock(clock.Now), WithSkew(10*time.Second))
	ctx := context.Background()

	first, err := ts.Token(ctx)
	if err != nil || first != "t1" {
		t.Fatalf("Token = %q, %v", first, err)
	}
	clock.Advance(49 * time.Second)
	if tok, _ := ts.Token(ctx); tok != "t1" || requests.Load() != 1 {
		t.Fatalf("expected cached token, got %q after %d requests", tok, requests.Load())
	}

	clock.Advance(time.Second)
	if tok, _ := ts.Token(ctx); tok != "t2" {
		t.Fatalf("expected refreshed token, got %q", tok)
	}
	if n := requests.Load(); n != 2 {
		t.Fatalf("expected exactly one refresh request, got %d total", n)
	}
	if cur := ts.Current(); cur == nil || cur.AccessToken != "t2" {
		t.Fatalf("Current() = %+v", cur)
	}
}

func TestCachedTokenSource_ConcurrentCallersShareRefresh(t *testing.T) {
	var calls atomic.Int32
	ts := NewCachedTokenSource(func(ctx context.Context) (*TokenResponse, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return &TokenResponse{AccessToken: "shared", ExpiresIn: 3600}, nil
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tok, err := ts.Token(context.Background()); err != nil || tok != "shared" {
				t.Errorf("Token = %q, %v", tok, err)
			}
		}()
	}
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Fatalf("fetch called %d times, want 1", n)
	}
}

func TestCachedTokenSource_NoExpiryAndInvalidate(t *testing.T) {
	var calls int
	ts := NewCachedTokenSource(func(ctx context.Context) (*TokenResponse, error) {
		calls++
		return &TokenResponse{AccessToken: "forever"}, nil
	})
	for range 3 {
		if _, err := ts.Token(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("token without expiry must be reused, fetched %d times", calls)
	}
	ts.Invalidate()
	if _, err := ts.Token(context.Background()); err != nil || calls != 2 {
		t.Fatalf("Invalidate must force a refresh: calls=%d err=%v", calls, err)
	}
}

func TestCachedTokenSource_Errors(t *testing.T) {
	boom := errors.New("boom")
	ts := NewCachedTokenSource(func(ctx context.Context) (*TokenResponse, error) { return nil, boom })
	if _, err := ts.Token(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}

	empty := NewCachedTokenSource(func(ctx context.Context) (*TokenResponse, error) { return &TokenResponse{}, nil })
	if _, err := empty.Token(context.Background()); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}

func TestTokenResponse_ExpiresAt(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		tok  TokenResponse
		want time.Time
	}{
		{name: "expires_in", tok: TokenResponse{ExpiresIn: 120}, want: issued.Add(2 * time.Minute)},
		{
			name: "expires header wins",
			tok:  TokenResponse{ExpiresIn: 120, Expires: "Tue, 02 Jan 2024 10:00:00 GMT"},
			want: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		},
		{name: "malformed expires falls back", tok: TokenResponse{ExpiresIn: 1, Expires: "soon"}, want: issued.Add(time.Second)},
		{name: "none", tok: TokenResponse{}, want: time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.ExpiresAt(issued); !got.Equal(tt.want) {
				t.Fatalf("ExpiresAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormTokenFetcher_Form(t *testing.T) {
	srv, rec := httpbuf.StartRecordingServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"x","token_type":"bearer",".expires":"Tue, 02 Jan 2024 10:00:00 GMT","userName":"ali"}`)
	}))
	cfg := config.TokenConfig{
		URL:          srv.URL + "/connect/token",
		GrantType:    config.GrantClientCredentials,
		ClientID:     "app",
		ClientSecret: "s3cret",
		Scope:        "api",
	}
	tok, err := FormTokenFetcher(cfg, srv.Client())(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if tok.UserName != "ali" || tok.Expires == "" {
		t.Fatalf("unexpected token %+v", tok)
	}

	last := rec.Last()
	if last.Method != http.MethodPost || last.Path != "/connect/token" {
		t.Fatalf("unexpected request %s %s", last.Method, last.Path)
	}
	want := "client_id=app&client_secret=s3cret&grant_type=client_credentials&scope=api"
	if string(last.Body) != want {
		t.Fatalf("form = %q, want %q", last.Body, want)
	}
}
