package httpx

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type compressOptions struct {
	level     int
	encodings []string
}

// CompressOption configures Compress.
type CompressOption func(*compressOptions)

// WithLevel sets the compression level. 0 selects the library default.
func WithLevel(level int) CompressOption {
	return func(o *compressOptions) { o.level = level }
}

// WithEncodings overrides the supported codings and their preference order.
func WithEncodings(encodings ...string) CompressOption {
	return func(o *compressOptions) { o.encodings = encodings }
}

// Compress encodes responses of next with the coding negotiated from the
// request's Accept-Encoding header. Responses that already carry a
// Content-Encoding, and bodiless statuses, are passed through untouched.
func Compress(next http.Handler, opts ...CompressOption) http.Handler {
	o := compressOptions{encodings: DefaultEncodings}
	for _, opt := range opts {
		opt(&o)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		enc := NegotiateEncoding(r.Header.Get("Accept-Encoding"), o.encodings...)
		if enc == "" || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		cw := &compressWriter{ResponseWriter: w, encoding: enc, level: o.level}
		defer func() {
			if err := cw.Close(); err != nil {
				zap.L().Error("httpx: closing response encoder", zap.String("encoding", enc), zap.Error(err))
			}
		}()
		next.ServeHTTP(cw, r)
	})
}

type compressWriter struct {
	http.ResponseWriter
	encoding    string
	level       int
	enc         io.WriteCloser
	wroteHeader bool
	passthrough bool
}

func (w *compressWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	h := w.Header()
	if h.Get("Content-Encoding") != "" || code < 200 || code == http.StatusNoContent || code == http.StatusNotModified {
		w.passthrough = true
	} else {
		h.Set("Content-Encoding", w.encoding)
		h.Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *compressWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(p)
	}
	if err := w.init(); err != nil {
		return 0, err
	}
	return w.enc.Write(p)
}

func (w *compressWriter) init() error {
	if w.enc != nil {
		return nil
	}
	enc, err := newWriter(w.encoding, w.ResponseWriter, w.level)
	if err != nil {
		return err
	}
	w.enc = enc
	return nil
}

// Flush pushes buffered compressed bytes to the client.
func (w *compressWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.passthrough {
		if err := w.init(); err != nil {
			return
		}
	}
	if f, ok := w.enc.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Close terminates the encoded stream. A response that announced an
// encoding but wrote nothing still gets a valid empty stream.
func (w *compressWriter) Close() error {
	if !w.wroteHeader || w.passthrough {
		return nil
	}
	if err := w.init(); err != nil {
		return err
	}
	return w.enc.Close()
}

func (w *compressWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Decompress decodes request bodies sent with Content-Encoding gzip or
// deflate before handing them to next. Unknown codings are answered with
// 415 and corrupt bodies with 400.
func Decompress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enc := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Encoding")))
		if enc == "" || enc == "identity" || r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}
		if !supportedEncoding(enc) {
			http.Error(w, "unsupported content encoding", http.StatusUnsupportedMediaType)
			return
		}
		body, err := decodeRequestBody(enc, r.Body)
		if err != nil {
			zap.L().Debug("httpx: request body decode failed", zap.String("encoding", enc), zap.Error(err))
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		r.Header.Del("Content-Encoding")
		r.Header.Set("Content-Length", strconv.Itoa(len(body)))
		next.ServeHTTP(w, r)
	})
}

func decodeRequestBody(enc string, body io.ReadCloser) ([]byte, error) {
	defer body.Close()
	rd, err := newReader(enc, body)
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(rd)
	return out, errors.Join(err, rd.Close())
}
