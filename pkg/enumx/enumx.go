// Package enumx gives integer constant types the name table, parsing and
// bit-flag helpers other languages attach to enums.
//
//	type Weekday int
//	const (Saturday Weekday = iota; Sunday)
//
//	var Weekdays = enumx.NewRegistry[Weekday]().
//		Register(Saturday, "Saturday", "شنبه").
//		Register(Sunday, "Sunday", "یکشنبه")
//
//	Weekdays.Parse("sunday") // Sunday, nil
package enumx

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknown is returned when a name or value is not registered.
var ErrUnknown = errors.New("enumx: unknown value")

// Integer is the constraint satisfied by enum types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type entry[E Integer] struct {
	value       E
	name        string
	description string
}

// Registry maps the values of E to names and descriptions. It is safe for
// concurrent use.
type Registry[E Integer] struct {
	mu      sync.RWMutex
	entries []entry[E]
	byValue map[E]int
	byName  map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry[E Integer]() *Registry[E] {
	return &Registry[E]{byValue: make(map[E]int), byName: make(map[string]int)}
}

// Register adds value under name. Re-registering a value replaces its name
// and description. The registry is returned for chaining.
func (r *Registry[E]) Register(value E, name, description string) *Registry[E] {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := entry[E]{value: value, name: name, description: description}
	if i, ok := r.byValue[value]; ok {
		delete(r.byName, strings.ToLower(r.entries[i].name))
		r.entries[i] = e
	} else {
		r.byValue[value] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	r.byName[strings.ToLower(name)] = r.byValue[value]
	return r
}

func (r *Registry[E]) lookup(v E) (entry[E], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byValue[v]
	if !ok {
		return entry[E]{}, false
	}
	return r.entries[i], true
}

// Name returns the registered name of v, or its decimal value.
func (r *Registry[E]) Name(v E) string {
	if e, ok := r.lookup(v); ok {
		return e.name
	}
	return format(v)
}

// Description returns the description of v, falling back to Name.
func (r *Registry[E]) Description(v E) string {
	if e, ok := r.lookup(v); ok && e.description != "" {
		return e.description
	}
	return r.Name(v)
}

// IsDefined reports whether v is registered.
func (r *Registry[E]) IsDefined(v E) bool {
	_, ok := r.lookup(v)
	return ok
}

// Parse resolves s case-insensitively against the registered names. A
// decimal string matching a registered value is accepted too.
func (r *Registry[E]) Parse(s string) (E, error) {
	s = strings.TrimSpace(s)
	r.mu.RLock()
	i, ok := r.byName[strings.ToLower(s)]
	if ok {
		v := r.entries[i].value
		r.mu.RUnlock()
		return v, nil
	}
	r.mu.RUnlock()

	if n, err := strconv.ParseInt(s, 10, 64); err == nil && r.IsDefined(E(n)) && int64(E(n)) == n {
		return E(n), nil
	}
	var zero E
	return zero, fmt.Errorf("%w: %q", ErrUnknown, s)
}

// ParseOrDefault is Parse returning def on failure.
func (r *Registry[E]) ParseOrDefault(s string, def E) E {
	v, err := r.Parse(s)
	if err != nil {
		return def
	}
	return v
}

// Values returns the registered values in registration order.
func (r *Registry[E]) Values() []E {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]E, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.value
	}
	return out
}

// Names returns the registered names in registration order.
func (r *Registry[E]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

func format[E Integer](v E) string {
	if v < 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

// HasFlag reports whether every bit of flag is set in v. A zero flag only
// matches a zero v.
func HasFlag[E Integer](v, flag E) bool {
	if flag == 0 {
		return v == 0
	}
	return v&flag == flag
}

// SetFlag returns v with the bits of flag set.
func SetFlag[E Integer](v, flag E) E { return v | flag }

// ClearFlag returns v with the bits of flag cleared.
func ClearFlag[E Integer](v, flag E) E { return v &^ flag }

// ToggleFlag returns v with the bits of flag flipped.
func ToggleFlag[E Integer](v, flag E) E { return v ^ flag }

// Flags decomposes v into the registered single-bit values it contains, in
// registration order. A zero v yields the registered zero value, if any.
func (r *Registry[E]) Flags(v E) []E {
	var out []E
	for _, f := range r.Values() {
		if f == 0 {
			if v == 0 {
				return []E{f}
			}
			continue
		}
		if bits.OnesCount64(uint64(f)) == 1 && HasFlag(v, f) {
			out = append(out, f)
		}
	}
	return out
}

// FormatFlags joins the names of Flags(v) with sep. Bits without a
// registered name are appended as a decimal remainder.
func (r *Registry[E]) FormatFlags(v E, sep string) string {
	flags := r.Flags(v)
	names := make([]string, 0, len(flags)+1)
	rest := v
	for _, f := range flags {
		names = append(names, r.Name(f))
		rest = ClearFlag(rest, f)
	}
	if rest != 0 {
		names = append(names, format(rest))
	}
	if len(names) == 0 {
		return format(v)
	}
	return strings.Join(names, sep)
}

// ParseFlags parses a sep separated list of names and ORs them together.
func (r *Registry[E]) ParseFlags(s, sep string) (E, error) {
	var v E
	for _, part := range strings.Split(s, sep) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := r.Parse(part)
		if err != nil {
			return 0, err
		}
		v |= f
	}
	return v, nil
}
