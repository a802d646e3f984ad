package httpx

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func base(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

// DecompressingTransport advertises gzip and deflate on outgoing requests
// and transparently decodes encoded responses. The Content-Encoding and
// Content-Length headers of decoded responses are removed.
type DecompressingTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *DecompressingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", strings.Join(DefaultEncodings, ", "))
	}
	resp, err := base(t.Base).RoundTrip(req)
	if err != nil {
		return nil, err
	}
	enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	if !supportedEncoding(enc) || req.Method == http.MethodHead || resp.ContentLength == 0 {
		return resp, nil
	}
	resp.Body = &lazyDecoder{encoding: enc, src: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// lazyDecoder creates its decoder on first read so that empty bodies do not
// fail while reading the stream header.
type lazyDecoder struct {
	encoding string
	src      io.ReadCloser
	dec      io.ReadCloser
	err      error
}

func (l *lazyDecoder) Read(p []byte) (int, error) {
	if l.dec == nil && l.err == nil {
		l.dec, l.err = newReader(l.encoding, l.src)
	}
	if l.err != nil {
		return 0, l.err
	}
	return l.dec.Read(p)
}

func (l *lazyDecoder) Close() error {
	if l.dec != nil {
		_ = l.dec.Close()
	}
	return l.src.Close()
}

// CompressingTransport compresses request bodies of at least MinSize bytes
// with Encoding (gzip when empty). Requests that already carry a
// Content-Encoding are sent as is. A MinSize of zero disables compression.
type CompressingTransport struct {
	Base     http.RoundTripper
	Encoding string
	Level    int
	MinSize  int
}

// RoundTrip implements http.RoundTripper.
func (t *CompressingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.MinSize <= 0 || req.Body == nil || req.Body == http.NoBody || req.Header.Get("Content-Encoding") != "" {
		return base(t.Base).RoundTrip(req)
	}
	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	body := raw
	if len(raw) >= t.MinSize {
		enc := t.Encoding
		if enc == "" {
			enc = EncodingGzip
		}
		if body, err = encodeBody(enc, raw, t.Level); err != nil {
			return nil, err
		}
		out.Header.Set("Content-Encoding", enc)
	}
	out.Body = io.NopCloser(bytes.NewReader(body))
	out.ContentLength = int64(len(body))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return base(t.Base).RoundTrip(out)
}
