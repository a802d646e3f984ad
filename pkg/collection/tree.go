package collection

// Node is one element of a hierarchy built by BuildHierarchy.
type Node[T any] struct {
	Item     T
	Children []*Node[T]
}

// BuildHierarchy arranges flat items into trees. parent returns the key of
// an item's parent and false for top-level items. Items whose parent key is
// unknown become roots, and so does the first item of every parent cycle.
// Sibling order follows items.
func BuildHierarchy[T any, K comparable](items []T, id func(T) K, parent func(T) (K, bool)) []*Node[T] {
	nodes := make([]*Node[T], len(items))
	byID := make(map[K]*Node[T], len(items))
	for i, item := range items {
		nodes[i] = &Node[T]{Item: item}
		if _, dup := byID[id(item)]; !dup {
			byID[id(item)] = nodes[i]
		}
	}

	parentOf := make(map[*Node[T]]*Node[T], len(items))
	for i, item := range items {
		if pk, ok := parent(item); ok {
			if p, found := byID[pk]; found && p != nodes[i] {
				parentOf[nodes[i]] = p
			}
		}
	}
	for _, n := range nodes {
		for p, steps := parentOf[n], 0; p != nil && steps < len(nodes); p, steps = parentOf[p], steps+1 {
			if p == n {
				delete(parentOf, n)
				break
			}
		}
	}

	var roots []*Node[T]
	for _, n := range nodes {
		if p, ok := parentOf[n]; ok {
			p.Children = append(p.Children, n)
			continue
		}
		roots = append(roots, n)
	}
	return roots
}

// Flatten walks the trees depth first, parents before children.
func Flatten[T any](roots []*Node[T]) []T {
	var out []T
	var walk func(n *Node[T])
	walk = func(n *Node[T]) {
		if n == nil {
			return
		}
		out = append(out, n.Item)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}
