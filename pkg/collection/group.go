package collection

import "github.com/samber/lo"

// Group is one bucket produced by GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy buckets items by key. Groups appear in the order their first
// element appears in items.
func GroupBy[T any, K comparable](items []T, key func(T) K) []Group[K, T] {
	pos := make(map[K]int)
	var groups []Group[K, T]
	for _, item := range items {
		k := key(item)
		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// GroupByMap buckets items by key into a map.
func GroupByMap[T any, K comparable](items []T, key func(T) K) map[K][]T {
	return lo.GroupBy(items, key)
}

// CountBy counts items per key.
func CountBy[T any, K comparable](items []T, key func(T) K) map[K]int {
	return lo.CountValuesBy(items, key)
}
