package reflectx

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	stringerType        = reflect.TypeFor[fmt.Stringer]()
)

// ConvertValue converts v to type to. It follows these steps:
//  1. Invalid or nil values become the zero value of to.
//  2. Assignable values are returned as is.
//  3. Pointers are unwrapped on the source side and allocated on the target side.
//  4. Strings are parsed into bools and numbers (strconv) or through
//     encoding.TextUnmarshaler.
//  5. Values are formatted into strings through encoding.TextMarshaler,
//     fmt.Stringer or strconv.
//  6. Numbers are converted between kinds when no precision or range is lost.
//  7. Slices and arrays are converted element by element.
//  8. Types sharing the same kind fall back to reflect conversion.
//
// Anything else fails with ErrTypeMismatch.
func ConvertValue(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(to), nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Zero(to), nil
	}
	if v.Type().AssignableTo(to) {
		return v, nil
	}

	if to.Kind() == reflect.Pointer {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return reflect.Zero(to), nil
		}
		inner, err := ConvertValue(v, to.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(to.Elem())
		p.Elem().Set(inner)
		return p, nil
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Zero(to), nil
		}
		return ConvertValue(v.Elem(), to)
	}

	if v.Kind() == reflect.String {
		if out, ok, err := parseString(v.String(), to); ok {
			return out, err
		}
	}
	if to.Kind() == reflect.String {
		if s, ok := formatString(v); ok {
			return reflect.ValueOf(s).Convert(to), nil
		}
	}

	if isNumber(v.Kind()) && isNumber(to.Kind()) {
		return convertNumber(v, to)
	}

	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && to.Kind() == reflect.Slice {
		out := reflect.MakeSlice(to, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			ev, err := ConvertValue(v.Index(i), to.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	}

	if v.Kind() == to.Kind() && v.Type().ConvertibleTo(to) {
		return v.Convert(to), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot convert %s to %s", ErrTypeMismatch, v.Type(), to)
}

// Convert is the generic form of ConvertValue.
func Convert[T any](v any) (T, error) {
	var zero T
	out, err := ConvertValue(reflect.ValueOf(v), reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	if !out.IsValid() {
		return zero, nil
	}
	return out.Interface().(T), nil
}

// parseString reports ok=false when to is not a type strings can be parsed into.
func parseString(s string, to reflect.Type) (reflect.Value, bool, error) {
	if reflect.PointerTo(to).Implements(textUnmarshalerType) {
		p := reflect.New(to)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, true, fmt.Errorf("%w: %q to %s: %v", ErrTypeMismatch, s, to, err)
		}
		return p.Elem(), true, nil
	}

	trimmed := strings.TrimSpace(s)
	out := reflect.New(to).Elem()
	var err error
	switch to.Kind() {
	case reflect.Bool:
		var b bool
		if b, err = strconv.ParseBool(trimmed); err == nil {
			out.SetBool(b)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		if n, err = strconv.ParseInt(trimmed, 10, to.Bits()); err == nil {
			out.SetInt(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var n uint64
		if n, err = strconv.ParseUint(trimmed, 10, to.Bits()); err == nil {
			out.SetUint(n)
		}
	case reflect.Float32, reflect.Float64:
		var f float64
		if f, err = strconv.ParseFloat(trimmed, to.Bits()); err == nil {
			out.SetFloat(f)
		}
	case reflect.Slice:
		if to.Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, false, nil
		}
		return reflect.ValueOf([]byte(s)).Convert(to), true, nil
	default:
		return reflect.Value{}, false, nil
	}
	if err != nil {
		return reflect.Value{}, true, fmt.Errorf("%w: %q to %s: %v", ErrTypeMismatch, s, to, err)
	}
	return out, true, nil
}

func formatString(v reflect.Value) (string, bool) {
	if v.Type().Implements(textMarshalerType) {
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err == nil {
			return string(b), true
		}
	}
	if v.Type().Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String(), true
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()), true
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes()), true
		}
	}
	return "", false
}

func convertNumber(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	out := reflect.New(to).Elem()
	fail := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("%w: %v does not fit %s", ErrTypeMismatch, v.Interface(), to)
	}

	switch {
	case isInt(to.Kind()):
		var n int64
		switch {
		case isInt(v.Kind()):
			n = v.Int()
		case isUint(v.Kind()):
			if v.Uint() > math.MaxInt64 {
				return fail()
			}
			n = int64(v.Uint())
		default:
			f := v.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return fail()
			}
			n = int64(f)
		}
		if out.OverflowInt(n) {
			return fail()
		}
		out.SetInt(n)
	case isUint(to.Kind()):
		var n uint64
		switch {
		case isInt(v.Kind()):
			if v.Int() < 0 {
				return fail()
			}
			n = uint64(v.Int())
		case isUint(v.Kind()):
			n = v.Uint()
		default:
			f := v.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return fail()
			}
			n = uint64(f)
		}
		if out.OverflowUint(n) {
			return fail()
		}
		out.SetUint(n)
	default:
		var f float64
		switch {
		case isInt(v.Kind()):
			f = float64(v.Int())
		case isUint(v.Kind()):
			f = float64(v.Uint())
		default:
			f = v.Float()
		}
		if out.OverflowFloat(f) {
			return fail()
		}
		out.SetFloat(f)
	}
	return out, nil
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}
