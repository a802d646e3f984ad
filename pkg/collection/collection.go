// Package collection holds slice and tree helpers used across the toolkit:
// hierarchy building, grouping, sorting, set comparison and paging.
package collection

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/MehtiSini/HappyTools-sub000/pkg/reflectx"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// IsNullOrEmpty reports whether items has no elements.
func IsNullOrEmpty[T any](items []T) bool {
	return len(items) == 0
}

// ForEach calls fn for every element with its index.
func ForEach[T any](items []T, fn func(i int, item T)) {
	for i, item := range items {
		fn(i, item)
	}
}

// Partition splits items into those matching pred and the rest. Order is kept.
func Partition[T any](items []T, pred func(T) bool) (matched, rest []T) {
	return lo.FilterReject(items, func(item T, _ int) bool { return pred(item) })
}

// ToMap indexes items by key. Later items win on duplicate keys.
func ToMap[T any, K comparable](items []T, key func(T) K) map[K]T {
	return lo.KeyBy(items, key)
}

// ContainsAny reports whether items holds at least one of candidates.
func ContainsAny[T comparable](items []T, candidates ...T) bool {
	return lo.SomeBy(candidates, func(c T) bool { return slices.Contains(items, c) })
}

// JoinString formats every element with format (fmt.Sprint when nil) and
// joins the results with sep.
func JoinString[T any](items []T, sep string, format func(T) string) string {
	if format == nil {
		format = func(v T) string { return fmt.Sprint(v) }
	}
	return strings.Join(lo.Map(items, func(v T, _ int) string { return format(v) }), sep)
}

// Chunk splits items into consecutive slices of at most size elements. A
// size of zero or less yields a single chunk.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	return lo.Chunk(items, size)
}

// Page returns the 1-based page of the given size. Out of range pages are
// empty.
func Page[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	return lo.Subset(items, start, uint(size))
}

// SortBy returns a stably sorted copy of items ordered by key.
func SortBy[T any, K cmp.Ordered](items []T, key func(T) K, desc bool) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		c := cmp.Compare(key(a), key(b))
		if desc {
			return -c
		}
		return c
	})
	return out
}

// SortByField sorts a copy of items by the named field (matched the way
// reflectx.LookupField does). Supported field kinds are strings, numbers,
// bools and types implementing fmt.Stringer. Unknown fields leave the order
// unchanged.
func SortByField[T any](items []T, field string, desc bool) []T {
	out := slices.Clone(items)
	t := reflectx.IndirectType(reflect.TypeFor[T]())
	if t.Kind() != reflect.Struct {
		return out
	}
	if _, ok := reflectx.LookupField(t, field); !ok {
		zap.L().Debug("collection: sort field not found", zap.String("type", t.String()), zap.String("field", field))
		return out
	}
	keys := make(map[int]reflect.Value, len(out))
	idx := make([]int, len(out))
	for i, item := range out {
		idx[i] = i
		if fv, err := reflectx.FieldByName(item, field); err == nil {
			keys[i] = fv
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		c := compareValues(keys[a], keys[b])
		if desc {
			return -c
		}
		return c
	})
	sorted := make([]T, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// compareValues orders invalid values (nil embedded structs) first.
func compareValues(a, b reflect.Value) int {
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0
	case !a.IsValid():
		return -1
	case !b.IsValid():
		return 1
	}
	a, b = reflectx.Indirect(a), reflectx.Indirect(b)
	if !a.IsValid() || !b.IsValid() {
		return compareValues(a, b)
	}
	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		}
		return 1
	}
	if s, ok := a.Interface().(fmt.Stringer); ok {
		if o, ok := b.Interface().(fmt.Stringer); ok {
			return cmp.Compare(s.String(), o.String())
		}
	}
	return 0
}
