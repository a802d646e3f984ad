// Package mapper copies same-named fields between two structs of different
// types. Names are matched loosely (exact, then Capitalized, uncapitalized,
// UPPER and lower), differing types are converted with reflectx.ConvertValue,
// and fields that cannot be converted are skipped instead of failing the
// whole copy.
package mapper

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/MehtiSini/HappyTools-sub000/pkg/reflectx"
	"go.uber.org/zap"
)

// TagKey is the struct tag read by the mapper. `mapper:"-"` never maps a
// field, `mapper:"audit"` marks audit metadata.
const TagKey = "mapper"

var (
	// ErrInvalidSource is returned when src is not a struct or a non-nil pointer to one.
	ErrInvalidSource = errors.New("mapper: source must be a struct or a non-nil pointer to one")
	// ErrInvalidTarget is returned when dst is not a non-nil pointer to a struct.
	ErrInvalidTarget = errors.New("mapper: target must be a non-nil pointer to a struct")
)

// AuditFields are target field names treated as audit metadata.
var AuditFields = []string{
	"CreatedAt", "CreatedBy",
	"UpdatedAt", "UpdatedBy",
	"ModifiedAt", "ModifiedBy",
	"DeletedAt", "DeletedBy",
}

var timeType = reflect.TypeFor[time.Time]()

// Mappable is implemented by sources that copy themselves into dst. MapTo
// reports how many fields it wrote and whether it handled dst at all; when
// handled is false the reflective copy runs instead.
type Mappable interface {
	MapTo(dst any) (copied int, handled bool)
}

// Options tune a copy.
type Options struct {
	// Exclude lists target field names that are never written.
	Exclude []string
	// Include, when not empty, restricts the copy to these target field names.
	Include []string
	// SkipAudit skips AuditFields and fields tagged `mapper:"audit"`.
	SkipAudit bool
	// IgnoreZero leaves the target untouched when the source field is zero.
	IgnoreZero bool
}

// Option mutates Options.
type Option func(*Options)

// WithExclude adds target field names to skip.
func WithExclude(names ...string) Option {
	return func(o *Options) { o.Exclude = append(o.Exclude, names...) }
}

// WithInclude restricts the copy to the given target field names.
func WithInclude(names ...string) Option {
	return func(o *Options) { o.Include = append(o.Include, names...) }
}

// WithAudit copies audit fields too.
func WithAudit() Option {
	return func(o *Options) { o.SkipAudit = false }
}

// WithIgnoreZero keeps target values when the matching source value is zero.
func WithIgnoreZero() Option {
	return func(o *Options) { o.IgnoreZero = true }
}

// DefaultOptions skips audit fields and nothing else.
func DefaultOptions() Options {
	return Options{SkipAudit: true}
}

// Copy writes every matching field of src into dst and returns the number of
// fields written. Errors are returned only for invalid arguments; a field
// that cannot be converted is skipped.
func Copy(src, dst any, opts ...Option) (int, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if m, ok := src.(Mappable); ok {
		if n, handled := m.MapTo(dst); handled {
			return n, nil
		}
	}

	rs := reflectx.Indirect(reflect.ValueOf(src))
	if !rs.IsValid() || rs.Kind() != reflect.Struct {
		return 0, ErrInvalidSource
	}
	rd := reflect.ValueOf(dst)
	if !rd.IsValid() || rd.Kind() != reflect.Pointer || rd.IsNil() || rd.Elem().Kind() != reflect.Struct {
		return 0, ErrInvalidTarget
	}
	rd = rd.Elem()
	if !rs.CanAddr() {
		tmp := reflect.New(rs.Type()).Elem()
		tmp.Set(rs)
		rs = tmp
	}

	copied := 0
	for _, tf := range reflect.VisibleFields(rd.Type()) {
		if tf.Anonymous && reflectx.IndirectType(tf.Type).Kind() == reflect.Struct {
			continue
		}
		if o.skip(tf) || isNavigation(tf.Type) {
			continue
		}
		sf, ok := FindSourceField(rs.Type(), tf.Name)
		if !ok {
			continue
		}
		sv, err := reflectx.FieldByIndex(rs, sf.Index, false)
		if err != nil {
			continue
		}
		sv = reflectx.Accessible(sv)
		if o.IgnoreZero && sv.IsZero() {
			continue
		}

		cv, err := reflectx.ConvertValue(sv, tf.Type)
		if err != nil {
			zap.L().Debug("mapper: field skipped",
				zap.String("target", rd.Type().String()),
				zap.String("field", tf.Name),
				zap.Error(err))
			continue
		}
		dv, err := reflectx.FieldByIndex(rd, tf.Index, true)
		if err != nil {
			continue
		}
		dv = reflectx.Accessible(dv)
		if !dv.CanSet() {
			continue
		}
		dv.Set(cv)
		copied++
	}
	return copied, nil
}

// SafeCopy is Copy with every failure swallowed. It returns the number of
// fields written.
func SafeCopy(src, dst any, exclude ...string) int {
	n, err := Copy(src, dst, WithExclude(exclude...))
	if err != nil {
		zap.L().Debug("mapper: safe copy aborted", zap.Error(err))
		return 0
	}
	return n
}

// Map allocates a T and copies src into it. T may be a struct or a pointer
// to a struct.
func Map[T any](src any, opts ...Option) (T, error) {
	var out T
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		p := reflect.New(t.Elem())
		if _, err := Copy(src, p.Interface(), opts...); err != nil {
			return out, err
		}
		return p.Interface().(T), nil
	}
	_, err := Copy(src, &out, opts...)
	return out, err
}

// MapSlice maps every element of src with Map.
func MapSlice[S, T any](src []S, opts ...Option) ([]T, error) {
	out := make([]T, 0, len(src))
	for _, s := range src {
		t, err := Map[T](s, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// FindSourceField looks up name in struct type t trying, in order: the exact
// name, first letter upper-cased, first letter lower-cased, all upper-case
// and all lower-case. The first hit wins.
func FindSourceField(t reflect.Type, name string) (reflect.StructField, bool) {
	for _, candidate := range nameCandidates(name) {
		if sf, ok := t.FieldByName(candidate); ok {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

func nameCandidates(name string) []string {
	return []string{
		name,
		mapFirst(name, unicode.ToUpper),
		mapFirst(name, unicode.ToLower),
		strings.ToUpper(name),
		strings.ToLower(name),
	}
}

func mapFirst(s string, f func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(f(r)) + s[size:]
}

func (o Options) skip(tf reflect.StructField) bool {
	if reflectx.HasTag(tf, TagKey, "-") {
		return true
	}
	if len(o.Include) > 0 && !containsFold(o.Include, tf.Name) {
		return true
	}
	if containsFold(o.Exclude, tf.Name) {
		return true
	}
	if o.SkipAudit && (reflectx.HasTag(tf, TagKey, "audit") || containsFold(AuditFields, tf.Name)) {
		return true
	}
	return false
}

// isNavigation reports whether t is a collection whose elements are
// references (structs, pointers, maps, slices, interfaces). Such fields hold
// relationships rather than values and are never copied.
func isNavigation(t reflect.Type) bool {
	t = reflectx.IndirectType(t)
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
	default:
		return false
	}
	elem := t.Elem()
	if elem == timeType {
		return false
	}
	switch elem.Kind() {
	case reflect.Struct, reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func containsFold(list []string, name string) bool {
	return slices.ContainsFunc(list, func(s string) bool { return strings.EqualFold(s, name) })
}
