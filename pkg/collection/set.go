package collection

import "github.com/samber/lo"

// SetEqual reports whether a and b hold the same distinct elements,
// ignoring order and duplicates.
func SetEqual[T comparable](a, b []T) bool {
	sa, sb := toSet(a), toSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for k := range sa {
		if _, ok := sb[k]; !ok {
			return false
		}
	}
	return true
}

// IsSubset reports whether every element of sub is in super.
func IsSubset[T comparable](sub, super []T) bool {
	return lo.Every(super, sub)
}

// Except returns the distinct elements of a that are not in b, in a's order.
func Except[T comparable](a, b []T) []T {
	sb := toSet(b)
	return lo.Uniq(lo.Filter(a, func(v T, _ int) bool {
		_, ok := sb[v]
		return !ok
	}))
}

// Intersect returns the distinct elements present in both a and b, in a's order.
func Intersect[T comparable](a, b []T) []T {
	sb := toSet(b)
	return lo.Uniq(lo.Filter(a, func(v T, _ int) bool {
		_, ok := sb[v]
		return ok
	}))
}

// Union returns the distinct elements of a followed by those of b.
func Union[T comparable](a, b []T) []T {
	return lo.Union(a, b)
}

// Distinct drops duplicates, keeping first occurrences.
func Distinct[T comparable](items []T) []T {
	return lo.Uniq(items)
}

// DistinctBy drops items whose key was already seen.
func DistinctBy[T any, K comparable](items []T, key func(T) K) []T {
	return lo.UniqBy(items, key)
}

func toSet[T comparable](items []T) map[T]struct{} {
	set := make(map[T]struct{}, len(items))
	for _, v := range items {
		set[v] = struct{}{}
	}
	return set
}
