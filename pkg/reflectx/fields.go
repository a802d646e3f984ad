// Package reflectx contains reflection helpers used across the toolkit:
// struct tag lookup, case-insensitive field access by name (exported and
// unexported), value conversion between loosely related types and generic
// type construction.
package reflectx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

var (
	// ErrNotStruct is returned when a struct (or pointer to struct) was expected.
	ErrNotStruct = errors.New("value is not a struct")
	// ErrFieldNotFound is returned when no field matches the requested name.
	ErrFieldNotFound = errors.New("field not found")
	// ErrNotSettable is returned when the field cannot be assigned.
	ErrNotSettable = errors.New("field is not settable")
	// ErrNilTarget is returned when a setter receives something other than a non-nil pointer.
	ErrNilTarget = errors.New("target must be a non-nil pointer")
	// ErrTypeMismatch is returned when a value cannot be converted to the field type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Indirect dereferences pointers and interfaces until it reaches a concrete
// value. It returns the zero reflect.Value when it meets a nil.
func Indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// IndirectType peels pointer types off t.
func IndirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Accessible returns a view of v that can be read and, when v is
// addressable, written, even if v was reached through an unexported field.
func Accessible(v reflect.Value) reflect.Value {
	if v.CanSet() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// LookupField finds a field of struct type t by name. An exact match wins;
// otherwise the first visible field whose name matches case-insensitively is
// returned. Promoted fields of embedded structs are included.
func LookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	t = IndirectType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	if sf, ok := t.FieldByName(name); ok {
		return sf, true
	}
	for _, sf := range reflect.VisibleFields(t) {
		if strings.EqualFold(sf.Name, name) {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

// FieldByName returns the field of v called name (see LookupField). v may be
// a struct or a pointer to one. Non-addressable structs are copied so the
// returned value is always readable.
func FieldByName(v any, name string) (reflect.Value, error) {
	sv, err := structValue(reflect.ValueOf(v))
	if err != nil {
		return reflect.Value{}, err
	}
	if !sv.CanAddr() {
		cp := reflect.New(sv.Type()).Elem()
		cp.Set(sv)
		sv = cp
	}
	sf, ok := LookupField(sv.Type(), name)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, sv.Type(), name)
	}
	fv, err := FieldByIndex(sv, sf.Index, false)
	if err != nil {
		return reflect.Value{}, err
	}
	return Accessible(fv), nil
}

// FieldByIndex walks index through v. Nil embedded pointers are allocated
// when alloc is set, otherwise ErrFieldNotFound is returned.
func FieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, fmt.Errorf("%w: nil embedded %s", ErrFieldNotFound, v.Type())
				}
				a := Accessible(v)
				if !a.CanSet() {
					return reflect.Value{}, fmt.Errorf("%w: embedded %s", ErrNotSettable, v.Type())
				}
				a.Set(reflect.New(v.Type().Elem()))
				v = a
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}

// GetFieldValue returns the value of the named field of v.
func GetFieldValue(v any, name string) (any, error) {
	fv, err := FieldByName(v, name)
	if err != nil {
		return nil, err
	}
	return fv.Interface(), nil
}

// SetFieldValue assigns value to the named field of target, converting it
// with ConvertValue when the types differ. target must be a non-nil pointer
// to a struct. A nil value resets nillable fields and is rejected otherwise.
func SetFieldValue(target any, name string, value any) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNilTarget
	}
	sv, err := structValue(rv)
	if err != nil {
		return err
	}
	sf, ok := LookupField(sv.Type(), name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrFieldNotFound, sv.Type(), name)
	}
	fv, err := FieldByIndex(sv, sf.Index, true)
	if err != nil {
		return err
	}
	fv = Accessible(fv)
	if !fv.CanSet() {
		return fmt.Errorf("%w: %s.%s", ErrNotSettable, sv.Type(), sf.Name)
	}

	if value == nil {
		if !IsNillable(fv.Kind()) {
			return fmt.Errorf("%w: nil for %s.%s (%s)", ErrTypeMismatch, sv.Type(), sf.Name, fv.Type())
		}
		fv.SetZero()
		return nil
	}

	cv, err := ConvertValue(reflect.ValueOf(value), fv.Type())
	if err != nil {
		return fmt.Errorf("set %s.%s: %w", sv.Type(), sf.Name, err)
	}
	fv.Set(cv)
	return nil
}

// SetFieldValueSafely behaves like SetFieldValue but reports success as a
// boolean instead of an error.
func SetFieldValueSafely(target any, name string, value any) bool {
	if IsNil(target) {
		return false
	}
	return SetFieldValue(target, name, value) == nil
}

// IsNillable reports whether values of kind k can be nil.
func IsNillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return true
	}
	return false
}

func structValue(v reflect.Value) (reflect.Value, error) {
	v = Indirect(v)
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotStruct
	}
	return v, nil
}
