// Package httpbuf holds in-process HTTP helpers shared by the package tests.
package httpbuf

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// Captured is one request seen by a Recorder.
type Captured struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Recorder captures incoming requests on the server side for later
// inspection in tests.
type Recorder struct {
	last  atomic.Pointer[Captured]
	count atomic.Int64
}

// Middleware records the request, restores its body and forwards it to next.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			_ = req.Body.Close()
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		r.last.Store(&Captured{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.RawQuery,
			Header: req.Header.Clone(),
			Body:   body,
		})
		r.count.Add(1)
		next.ServeHTTP(w, req)
	})
}

// Last returns the most recently captured request or nil if none.
func (r *Recorder) Last() *Captured {
	return r.last.Load()
}

// Count returns how many requests were recorded.
func (r *Recorder) Count() int {
	return int(r.count.Load())
}

// StartServer starts an httptest server for handler and registers its
// shutdown with t.Cleanup. The test is skipped when the sandbox forbids
// listening sockets.
func StartServer(t testing.TB, handler http.Handler) *httptest.Server {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			if strings.Contains(msg, "operation not permitted") {
				t.Skip("network operations not permitted in sandbox")
			}
			panic(r)
		}
	}()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// StartRecordingServer is StartServer with a Recorder in front of handler.
func StartRecordingServer(t testing.TB, handler http.Handler) (*httptest.Server, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	return StartServer(t, rec.Middleware(handler)), rec
}
