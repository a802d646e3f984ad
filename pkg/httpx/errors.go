package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ErrStatus is wrapped by every HTTPError.
var ErrStatus = errors.New("httpx: unsuccessful status code")

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

// ModelState holds per-field validation messages. Keys are matched
// case-insensitively and keep the spelling of their first insertion.
type ModelState struct {
	keys []string
	msgs map[string][]string
}

// Add appends messages to key.
func (m *ModelState) Add(key string, msgs ...string) {
	if m.msgs == nil {
		m.msgs = make(map[string][]string)
	}
	k := strings.ToLower(key)
	if _, ok := m.msgs[k]; !ok {
		m.keys = append(m.keys, key)
	}
	m.msgs[k] = append(m.msgs[k], msgs...)
}

// Get returns the messages of key.
func (m *ModelState) Get(key string) []string {
	if m == nil {
		return nil
	}
	return m.msgs[strings.ToLower(key)]
}

// Keys returns the keys in insertion order.
func (m *ModelState) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *ModelState) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *ModelState) String() string {
	parts := make([]string, 0, m.Len())
	for _, k := range m.Keys() {
		parts = append(parts, k+": "+strings.Join(m.Get(k), ", "))
	}
	return strings.Join(parts, "; ")
}

// HTTPError is returned for every response with a status code of 400 or
// above. Body holds the raw response bytes; Message and ModelState are
// filled when the body matches a known error shape.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
	Message    string
	ModelState *ModelState
	Response   *http.Response
}

func (e *HTTPError) Error() string {
	var b strings.Builder
	b.WriteString("http ")
	if e.Status != "" {
		b.WriteString(e.Status)
	} else {
		fmt.Fprintf(&b, "%d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.ModelState.Len() > 0 {
		b.WriteString(" (")
		b.WriteString(e.ModelState.String())
		b.WriteString(")")
	}
	return b.String()
}

func (e *HTTPError) Unwrap() error { return ErrStatus }

// ParseError reads and closes resp.Body and builds an HTTPError from it. The
// body is matched against, in order: a Web API error dictionary
// ({"Message", "MessageDetail", "ExceptionMessage", "ModelState"}), a
// validation problem ({"title", "errors": {field: [msg]}}) and an OAuth
// grant error ({"error", "error_description"}). When none match only the raw
// body is kept.
func ParseError(resp *http.Response) *HTTPError {
	herr := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Response: resp}
	if resp.Body != nil {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		closeBody(resp)
		if err != nil {
			herr.Message = fmt.Sprintf("reading error body: %v", err)
			return herr
		}
		herr.Body = body
	}

	var fields map[string]json.RawMessage
	if len(herr.Body) == 0 || json.Unmarshal(herr.Body, &fields) != nil {
		return herr
	}
	for _, parse := range []func(map[string]json.RawMessage, *HTTPError) bool{
		parseErrorDictionary,
		parseValidationProblem,
		parseOAuthError,
	} {
		if parse(fields, herr) {
			break
		}
	}
	return herr
}

func parseErrorDictionary(fields map[string]json.RawMessage, herr *HTTPError) bool {
	msg := stringField(fields, "Message")
	exc := stringField(fields, "ExceptionMessage")
	ms, hasMS := modelStateField(fields, "ModelState")
	if msg == "" && exc == "" && !hasMS {
		return false
	}
	if msg == "" {
		msg = exc
	}
	if detail := stringField(fields, "MessageDetail"); detail != "" {
		msg = strings.TrimSpace(msg + " " + detail)
	}
	herr.Message = msg
	if hasMS {
		herr.ModelState = ms
	}
	return true
}

func parseValidationProblem(fields map[string]json.RawMessage, herr *HTTPError) bool {
	ms, ok := modelStateField(fields, "errors")
	if !ok {
		return false
	}
	herr.Message = stringField(fields, "title")
	herr.ModelState = ms
	return true
}

func parseOAuthError(fields map[string]json.RawMessage, herr *HTTPError) bool {
	code := stringField(fields, "error")
	if code == "" {
		return false
	}
	herr.Message = code
	if desc := stringField(fields, "error_description"); desc != "" {
		herr.Message = desc
	}
	return true
}

func lookup(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := fields[name]; ok {
		return v, true
	}
	for k, v := range fields {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := lookup(fields, name)
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// modelStateField decodes an object whose values are a message or a list of
// messages.
func modelStateField(fields map[string]json.RawMessage, name string) (*ModelState, bool) {
	raw, ok := lookup(fields, name)
	if !ok {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil || obj == nil {
		return nil, false
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ms := &ModelState{}
	for _, k := range keys {
		var list []string
		if json.Unmarshal(obj[k], &list) == nil {
			ms.Add(k, list...)
			continue
		}
		var one string
		if json.Unmarshal(obj[k], &one) == nil {
			ms.Add(k, one)
		}
	}
	return ms, true
}
