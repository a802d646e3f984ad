// Package clone produces deep copies of arbitrary Go values, including
// unexported fields and cyclic pointer graphs.
//
// The copy is built the way a memberwise clone followed by a field walk
// would: every struct is first duplicated bit for bit, then each field that
// can hold references is replaced by its own deep copy. No constructor is
// called, so types without a usable zero value are cloned as well.
//
//	type Node struct {
//		Value int
//		Next  *Node
//	}
//
//	n := &Node{Value: 1}
//	n.Next = n
//	c := clone.Deep(n) // c != n, c.Next == c
//
// Rules:
//   - bools, numbers and strings are copied by value
//   - funcs are dropped (the copy holds nil)
//   - pointers, maps and slices are tracked in a visited map keyed by their
//     address, so shared and cyclic references stay shared in the copy
//   - chans, unsafe pointers and registered immutable types (time.Time and
//     *time.Location by default) are copied shallowly
//   - values implementing DeepCopier provide their own copy
//
// Panics raised while copying a field are not recovered.
package clone

import (
	"reflect"
	"sync"
	"time"

	"github.com/MehtiSini/HappyTools-sub000/pkg/reflectx"
)

// DeepCopier is implemented by types that know how to copy themselves. The
// returned value must be assignable to the receiver's type; otherwise it is
// ignored and the reflective copy is used.
type DeepCopier interface {
	DeepCopy() any
}

var (
	deepCopierType = reflect.TypeFor[DeepCopier]()
	immutable      sync.Map // reflect.Type → struct{}
)

func init() {
	RegisterImmutable(reflect.TypeFor[time.Time]())
	RegisterImmutable(reflect.TypeFor[*time.Location]())
}

// RegisterImmutable marks t as safe to share between original and copy.
func RegisterImmutable(t reflect.Type) {
	immutable.Store(t, struct{}{})
}

func isImmutable(t reflect.Type) bool {
	_, ok := immutable.Load(t)
	return ok
}

// Deep returns a deep copy of v.
func Deep[T any](v T) T {
	out := DeepValue(v)
	if out == nil {
		var zero T
		return zero
	}
	return out.(T)
}

// DeepValue returns a deep copy of v with the same dynamic type.
func DeepValue(v any) any {
	if v == nil {
		return nil
	}
	c := &cloner{visited: make(map[visitKey]reflect.Value)}
	return c.clone(reflect.ValueOf(v)).Interface()
}

// Shallow returns a one-level copy of v: the pointee of a pointer, the
// elements of a slice or the entries of a map are copied, but whatever they
// reference is shared.
func Shallow[T any](v T) T {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return v
	}
	var out reflect.Value
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return v
		}
		out = reflect.New(rv.Type().Elem())
		out.Elem().Set(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out = reflect.MakeSlice(rv.Type(), rv.Len(), rv.Cap())
		reflect.Copy(out, rv)
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out = reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
	default:
		return v
	}
	return out.Interface().(T)
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type cloner struct {
	visited map[visitKey]reflect.Value
}

func (c *cloner) clone(src reflect.Value) reflect.Value {
	if !src.IsValid() {
		return src
	}
	src = addressable(src)
	if isImmutable(src.Type()) {
		return src
	}
	if out, ok := c.copier(src); ok {
		return out
	}

	switch src.Kind() {
	case reflect.Func:
		return reflect.Zero(src.Type())

	case reflect.Pointer:
		if src.IsNil() {
			return reflect.Zero(src.Type())
		}
		key := visitKey{ptr: src.Pointer(), typ: src.Type()}
		if dst, ok := c.visited[key]; ok {
			return dst
		}
		dst := reflect.New(src.Type().Elem())
		c.visited[key] = dst
		c.cloneInto(dst.Elem(), src.Elem())
		return dst

	case reflect.Interface:
		if src.IsNil() {
			return reflect.Zero(src.Type())
		}
		dst := reflect.New(src.Type()).Elem()
		dst.Set(c.clone(src.Elem()))
		return dst

	case reflect.Map:
		if src.IsNil() {
			return reflect.Zero(src.Type())
		}
		key := visitKey{ptr: src.Pointer(), typ: src.Type()}
		if dst, ok := c.visited[key]; ok {
			return dst
		}
		dst := reflect.MakeMapWithSize(src.Type(), src.Len())
		c.visited[key] = dst
		iter := src.MapRange()
		for iter.Next() {
			dst.SetMapIndex(c.clone(iter.Key()), c.clone(iter.Value()))
		}
		return dst

	case reflect.Slice:
		if src.IsNil() {
			return reflect.Zero(src.Type())
		}
		key := visitKey{ptr: src.Pointer(), typ: src.Type(), len: src.Len()}
		if src.Len() > 0 {
			if dst, ok := c.visited[key]; ok {
				return dst
			}
		}
		dst := reflect.MakeSlice(src.Type(), src.Len(), src.Cap())
		reflect.Copy(dst, src)
		if src.Len() > 0 {
			c.visited[key] = dst
		}
		if !shallowKind(src.Type().Elem()) {
			for i := 0; i < src.Len(); i++ {
				c.cloneInto(dst.Index(i), src.Index(i))
			}
		}
		return dst

	case reflect.Array, reflect.Struct:
		dst := reflect.New(src.Type()).Elem()
		c.cloneInto(dst, src)
		return dst

	default:
		// bools, numbers, strings, chans and unsafe pointers
		return src
	}
}

// cloneInto writes a deep copy of src into the addressable dst.
func (c *cloner) cloneInto(dst, src reflect.Value) {
	src = addressable(src)
	if isImmutable(src.Type()) {
		dst.Set(src)
		return
	}

	switch src.Kind() {
	case reflect.Struct:
		if out, ok := c.copier(src); ok {
			dst.Set(out)
			return
		}
		dst.Set(src)
		for i := 0; i < src.NumField(); i++ {
			if shallowKind(src.Type().Field(i).Type) {
				continue
			}
			c.cloneInto(reflectx.Accessible(dst.Field(i)), reflectx.Accessible(src.Field(i)))
		}
	case reflect.Array:
		dst.Set(src)
		if shallowKind(src.Type().Elem()) {
			return
		}
		for i := 0; i < src.Len(); i++ {
			c.cloneInto(dst.Index(i), src.Index(i))
		}
	default:
		dst.Set(c.clone(src))
	}
}

// copier returns the DeepCopier result for src when src implements it.
func (c *cloner) copier(src reflect.Value) (reflect.Value, bool) {
	if !src.Type().Implements(deepCopierType) || !src.CanInterface() {
		return reflect.Value{}, false
	}
	switch src.Kind() {
	case reflect.Interface:
		// the dynamic value is dispatched by clone
		return reflect.Value{}, false
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if src.IsNil() {
			return reflect.Value{}, false
		}
	}
	out := reflect.ValueOf(src.Interface().(DeepCopier).DeepCopy())
	if !out.IsValid() || !out.Type().AssignableTo(src.Type()) {
		return reflect.Value{}, false
	}
	return out, true
}

// shallowKind reports whether values of t never hold references.
func shallowKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// addressable copies structs and arrays that cannot be addressed (map
// values, interface payloads, top-level arguments) so their unexported
// fields can be read through reflectx.Accessible.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || (v.Kind() != reflect.Struct && v.Kind() != reflect.Array) {
		return v
	}
	tmp := reflect.New(v.Type()).Elem()
	tmp.Set(v)
	return tmp
}
