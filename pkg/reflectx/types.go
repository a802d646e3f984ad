package reflectx

import (
	"reflect"
	"sort"
)

// New returns a ready-to-use value of T: pointers point at a fresh zero
// element, maps and slices are allocated empty, everything else is the
// zero value.
func New[T any]() T {
	if v, ok := NewOf(reflect.TypeFor[T]()).(T); ok {
		return v
	}
	var zero T
	return zero
}

// NewOf is the reflect.Type form of New.
func NewOf(t reflect.Type) any {
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface()
	case reflect.Map:
		return reflect.MakeMap(t).Interface()
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0).Interface()
	case reflect.Chan:
		return reflect.MakeChan(t, 0).Interface()
	case reflect.Interface:
		return nil
	default:
		return reflect.New(t).Elem().Interface()
	}
}

// MakeSliceOf builds a []elem of length n.
func MakeSliceOf(elem reflect.Type, n int) any {
	return reflect.MakeSlice(reflect.SliceOf(elem), n, n).Interface()
}

// MakeMapOf builds an empty map[key]elem.
func MakeMapOf(key, elem reflect.Type) any {
	return reflect.MakeMap(reflect.MapOf(key, elem)).Interface()
}

// Implements reports whether v satisfies interface I.
func Implements[I any](v any) bool {
	if v == nil {
		return false
	}
	_, ok := v.(I)
	return ok
}

// IsNil reports whether v is nil or a typed nil (pointer, map, slice, func,
// chan or interface).
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return IsNillable(rv.Kind()) && rv.IsNil()
}

// IsZero reports whether v is nil or the zero value of its type.
func IsZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}

// ElemType peels pointers and container types off t until it reaches the
// element type: *[]*User → User, map[string][]int → int.
func ElemType(t reflect.Type) reflect.Type {
	for t != nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
			t = t.Elem()
		default:
			return t
		}
	}
	return nil
}

// IsCollection reports whether t (after pointer indirection) is a slice,
// array or map. Strings are not collections.
func IsCollection(t reflect.Type) bool {
	t = IndirectType(t)
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

// IsPrimitive reports whether t is a bool, number or string kind.
func IsPrimitive(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String, reflect.Complex64, reflect.Complex128:
		return true
	}
	return isNumber(t.Kind())
}

// MethodNames returns the sorted names of the exported methods of v's type.
func MethodNames(v any) []string {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil
	}
	names := make([]string, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		names = append(names, t.Method(i).Name)
	}
	sort.Strings(names)
	return names
}

// TypeName returns the Go type name of v, or "<nil>".
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
