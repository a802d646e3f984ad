package httpx

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const (
	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"
)

// ErrUnsupportedEncoding is returned for content codings other than gzip and
// deflate.
var ErrUnsupportedEncoding = errors.New("httpx: unsupported content encoding")

// DefaultEncodings lists the supported content codings in server preference
// order.
var DefaultEncodings = []string{EncodingGzip, EncodingDeflate}

// NegotiateEncoding picks the content coding to use for a response given the
// request's Accept-Encoding header. The coding with the highest non-zero
// quality wins; q=0 excludes a coding, "*" stands for every supported coding
// not listed explicitly, and ties go to the earlier entry of supported
// (DefaultEncodings when empty). An empty result means identity.
func NegotiateEncoding(acceptEncoding string, supported ...string) string {
	if len(supported) == 0 {
		supported = DefaultEncodings
	}
	explicit := make(map[string]float64)
	wildcard := -1.0
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, q, ok := parseCoding(part)
		if !ok {
			continue
		}
		if name == "*" {
			wildcard = q
			continue
		}
		explicit[name] = q
	}

	best, bestQ := "", 0.0
	for _, enc := range supported {
		q, listed := explicit[enc]
		if !listed {
			if wildcard < 0 {
				continue
			}
			q = wildcard
		}
		if q > bestQ {
			best, bestQ = enc, q
		}
	}
	return best
}

func parseCoding(part string) (string, float64, bool) {
	fields := strings.Split(part, ";")
	name := strings.ToLower(strings.TrimSpace(fields[0]))
	if name == "" {
		return "", 0, false
	}
	q := 1.0
	for _, p := range fields[1:] {
		k, v, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(k), "q") {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f < 0 || f > 1 {
			return "", 0, false
		}
		q = f
	}
	return name, q, true
}

func supportedEncoding(enc string) bool {
	return enc == EncodingGzip || enc == EncodingDeflate
}

// newWriter wraps w with an encoder for enc. Level 0 selects the default.
func newWriter(enc string, w io.Writer, level int) (io.WriteCloser, error) {
	if level == 0 {
		level = flate.DefaultCompression
	}
	switch enc {
	case EncodingGzip:
		return gzip.NewWriterLevel(w, level)
	case EncodingDeflate:
		return flate.NewWriter(w, level)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, enc)
}

// newReader wraps r with a decoder for enc. Deflate accepts both raw and
// zlib-wrapped streams.
func newReader(enc string, r io.Reader) (io.ReadCloser, error) {
	switch enc {
	case EncodingGzip:
		return gzip.NewReader(r)
	case EncodingDeflate:
		br := bufio.NewReader(r)
		if hdr, err := br.Peek(2); err == nil && isZlibHeader(hdr) {
			return zlib.NewReader(br)
		}
		return flate.NewReader(br), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, enc)
}

func isZlibHeader(b []byte) bool {
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// EncodeBody compresses data with enc at the default level.
func EncodeBody(enc string, data []byte) ([]byte, error) {
	return encodeBody(enc, data, 0)
}

func encodeBody(enc string, data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := newWriter(enc, &buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc, err)
	}
	return buf.Bytes(), nil
}

// DecodeBody decompresses data encoded with enc.
func DecodeBody(enc string, data []byte) ([]byte, error) {
	r, err := newReader(enc, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", enc, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", enc, err)
	}
	return out, nil
}
