package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MehtiSini/HappyTools-sub000/internal/testutil/httpbuf"
	"github.com/MehtiSini/HappyTools-sub000/pkg/config"
	"github.com/goccy/go-json"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(&config.Config{BaseURL: baseURL + "/api/", UserID: "u-42"}, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(&config.Config{}); !errors.Is(err, config.ErrBaseURLRequired) {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
	if _, err := NewClient(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestClient_URL(t *testing.T) {
	c := newTestClient(t, "https://example.test")
	tests := map[string]string{
		"users":                  "https://example.test/api/users",
		"/users/1":               "https://example.test/api/users/1",
		"":                       "https://example.test/api",
		"http://other.test/x?y=": "http://other.test/x?y=",
	}
	for in, want := range tests {
		if got := c.URL(in); got != want {
			t.Errorf("URL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClient_GetJSON_HeadersAndCompression(t *testing.T) {
	srv, rec := httpbuf.StartRecordingServer(t, Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"` + strings.Repeat("x", 500) + `"}`))
	})))

	c := newTestClient(t, srv.URL, WithTokenSource(StaticToken("tok-1")))
	var u user
	if err := c.GetJSON(context.Background(), "users/7", &u); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if u.ID != 7 || len(u.Name) != 500 {
		t.Fatalf("unexpected user %+v", u)
	}

	last := rec.Last()
	if last.Path != "/api/users/7" || last.Method != http.MethodGet {
		t.Fatalf("unexpected request %s %s", last.Method, last.Path)
	}
	checks := map[string]string{
		"Authorization":   "Bearer tok-1",
		UserIDHeader:      "u-42",
		"Accept":          "application/json",
		"Accept-Encoding": "gzip, deflate",
	}
	for k, want := range checks {
		if got := last.Header.Get(k); got != want {
			t.Errorf("header %s = %q, want %q", k, got, want)
		}
	}
}

func TestClient_CompressionDisabled(t *testing.T) {
	srv, rec := httpbuf.StartRecordingServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain"))
	}))
	cfg := &config.Config{BaseURL: srv.URL, Compression: config.CompressionConfig{Disabled: true}}
	c, err := NewClient(cfg, WithTokenSource(nil))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	s, err := c.GetString(context.Background(), "x")
	if err != nil || s != "plain" {
		t.Fatalf("GetString = %q, %v", s, err)
	}
	h := rec.Last().Header
	if h.Get("Authorization") != "" || h.Get(UserIDHeader) != "" {
		t.Fatalf("unexpected auth headers %v", h)
	}
	if strings.Contains(h.Get("Accept-Encoding"), "deflate") {
		t.Fatalf("Accept-Encoding must not be negotiated, got %q", h.Get("Accept-Encoding"))
	}
}

func TestClient_PostPutPatchDelete(t *testing.T) {
	srv, rec := httpbuf.StartRecordingServer(t, Decompress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		var in user
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in.ID++
		_ = json.NewEncoder(w).Encode(in)
	})))

	cfg := &config.Config{BaseURL: srv.URL, Compression: config.CompressionConfig{MinSize: 16}}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	for _, call := range []func(in, out any) error{
		func(in, out any) error { return c.PostJSON(ctx, "u", in, out) },
		func(in, out any) error { return c.PutJSON(ctx, "u", in, out) },
		func(in, out any) error { return c.PatchJSON(ctx, "u", in, out) },
	} {
		var out user
		if err := call(user{ID: 1, Name: "Neda Karimi"}, &out); err != nil {
			t.Fatalf("call: %v", err)
		}
		if out.ID != 2 || out.Name != "Neda Karimi" {
			t.Fatalf("unexpected echo %+v", out)
		}
		if rec.Last().Header.Get("Content-Type") != "application/json" {
			t.Fatalf("Content-Type = %q", rec.Last().Header.Get("Content-Type"))
		}
		if rec.Last().Header.Get("Content-Encoding") != EncodingGzip {
			t.Fatal("request body above MinSize must be compressed")
		}
	}

	var out user
	if err := c.DeleteJSON(ctx, "u/1", &out); err != nil {
		t.Fatalf("DeleteJSON: %v", err)
	}

	u, err := Post[user](ctx, c, "u", user{ID: 9})
	if err != nil || u.ID != 10 {
		t.Fatalf("Post = %+v, %v", u, err)
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	srv := httpbuf.StartServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"Message":"The request is invalid.","ModelState":{"model.Name":["Name is required."]}}`))
	}))
	c := newTestClient(t, srv.URL)

	_, err := Get[user](context.Background(), c, "users")
	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("expected *HTTPError, got %T %v", err, err)
	}
	if !errors.Is(err, ErrStatus) {
		t.Fatal("HTTPError must unwrap to ErrStatus")
	}
	if herr.StatusCode != http.StatusBadRequest || herr.Message != "The request is invalid." {
		t.Fatalf("unexpected error %+v", herr)
	}
	if got := herr.ModelState.Get("MODEL.NAME"); len(got) != 1 || got[0] != "Name is required." {
		t.Fatalf("ModelState = %v", got)
	}
	if !strings.Contains(err.Error(), "Name is required.") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestClient_TokenFlow(t *testing.T) {
	var tokenCalls atomic.Int32
	var unauthorized atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("token Content-Type = %q", ct)
		}
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "password" || r.PostForm.Get("username") != "ali" || r.PostForm.Get("password") != "pw" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		_, _ = io.WriteString(w, `{"access_token":"abc","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		if unauthorized.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, r.Header.Get("Authorization"))
	})
	srv := httpbuf.StartServer(t, mux)

	cfg := &config.Config{
		BaseURL: srv.URL + "/api",
		Token:   config.TokenConfig{URL: srv.URL + "/token", Username: "ali", Password: "pw"},
	}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()
	for range 3 {
		got, err := c.GetString(ctx, "me")
		if err != nil || got != "Bearer abc" {
			t.Fatalf("GetString = %q, %v", got, err)
		}
	}
	if n := tokenCalls.Load(); n != 1 {
		t.Fatalf("token fetched %d times, want 1", n)
	}

	unauthorized.Store(true)
	if _, err := c.GetString(ctx, "me"); err == nil {
		t.Fatal("expected 401 error")
	}
	unauthorized.Store(false)
	if _, err := c.GetString(ctx, "me"); err != nil {
		t.Fatalf("GetString after 401: %v", err)
	}
	if n := tokenCalls.Load(); n != 2 {
		t.Fatalf("a 401 must invalidate the cached token; fetched %d times", n)
	}
}

func TestClient_TokenGrantError(t *testing.T) {
	srv := httpbuf.StartServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"The user name or password is incorrect."}`)
	}))
	cfg := &config.Config{BaseURL: srv.URL, Token: config.TokenConfig{URL: srv.URL + "/token", Username: "a"}}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	err = c.GetJSON(context.Background(), "x", nil)
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.Message != "The user name or password is incorrect." {
		t.Fatalf("expected OAuth HTTPError, got %v", err)
	}
}

func TestPostProto(t *testing.T) {
	srv, rec := httpbuf.StartRecordingServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var in wrapperspb.StringValue
		if err := proto.Unmarshal(raw, &in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, _ := proto.Marshal(wrapperspb.String(strings.ToUpper(in.GetValue())))
		_, _ = w.Write(out)
	}))
	c := newTestClient(t, srv.URL)

	var out wrapperspb.StringValue
	if err := c.PostProto(context.Background(), "echo", wrapperspb.String("salam"), &out); err != nil {
		t.Fatalf("PostProto: %v", err)
	}
	if out.GetValue() != "SALAM" {
		t.Fatalf("unexpected reply %q", out.GetValue())
	}
	if rec.Last().Header.Get("Content-Type") != "application/x-protobuf" {
		t.Fatalf("Content-Type = %q", rec.Last().Header.Get("Content-Type"))
	}
}

func TestPostChunk(t *testing.T) {
	var mu sync.Mutex
	var received [][]int
	srv := httpbuf.StartServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var chunk []int
		_ = json.NewDecoder(r.Body).Decode(&chunk)
		mu.Lock()
		received = append(received, chunk)
		mu.Unlock()
		if chunk[0] == 3 {
			http.Error(w, `{"message":"bad chunk"}`, http.StatusInternalServerError)
		}
	}))
	c := newTestClient(t, srv.URL)
	items := []int{1, 2, 3, 4, 5, 6}
	ctx := context.Background()

	t.Run("abort", func(t *testing.T) {
		received = nil
		report, err := PostChunk(ctx, c, "bulk", items, 2, false)
		if err == nil || !errors.Is(err, ErrStatus) {
			t.Fatalf("expected chunk error, got %v", err)
		}
		if !strings.Contains(err.Error(), "chunk 2 of 3") {
			t.Fatalf("error must name the chunk: %v", err)
		}
		if len(received) != 2 || report.Succeeded != 1 {
			t.Fatalf("remaining chunks must not be posted: %v, %+v", received, report)
		}
	})

	t.Run("continue", func(t *testing.T) {
		received = nil
		report, err := PostChunk(ctx, c, "bulk", items, 2, true)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if len(received) != 3 || report.Succeeded != 2 || len(report.Failed) != 1 {
			t.Fatalf("unexpected report %+v, received %v", report, received)
		}
		f := report.Failed[0]
		if f.Index != 1 || f.Offset != 2 || f.Size != 2 || !errors.Is(report.Err(), ErrStatus) {
			t.Fatalf("unexpected failure %+v", f)
		}
	})

	t.Run("default size", func(t *testing.T) {
		received = nil
		report, err := PostChunk(ctx, c, "bulk", []int{7, 8}, 0, false)
		if err != nil || report.Chunks != 1 || len(received) != 1 {
			t.Fatalf("unexpected %+v %v", report, err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := PostChunk(cctx, c, "bulk", items, 2, true)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestClient_Timeout(t *testing.T) {
	srv := httpbuf.StartServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := c.GetJSON(ctx, "slow", nil); err == nil {
		t.Fatal("expected timeout error")
	}
	if d := time.Since(start); d > 500*time.Millisecond {
		t.Fatalf("took too long: %v", d)
	}
}
