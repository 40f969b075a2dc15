package jsontree

import "strconv"

// MaxNodes bounds how many nodes a single walk visits.
const MaxNodes = 20000

// Visitor is called for every visited node with the key it is stored under
// and its containing node. Array items use their decimal index as key; the
// root has an empty key and a nil parent. Returning false stops the walk.
type Visitor func(key string, value Value, parent Value) bool

type walkEntry struct {
	key    string
	value  Value
	parent Value
}

// Walk visits root and its descendants breadth-first: object members in
// insertion order, then array items in index order, level by level. It stops
// after MaxNodes visits and never expands the same object or array twice, so
// cyclic structures terminate.
func Walk(root Value, visit Visitor) {
	WalkLimit(root, MaxNodes, visit)
}

// WalkLimit is like Walk with an explicit node budget.
func WalkLimit(root Value, limit int, visit Visitor) {
	if root == nil || limit <= 0 {
		return
	}

	expanded := make(map[Value]struct{})
	queue := []walkEntry{{value: root}}
	visited := 0

	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		if visited >= limit {
			return
		}
		visited++

		if !visit(entry.key, entry.value, entry.parent) {
			return
		}

		switch v := entry.value.(type) {
		case *Object:
			if v == nil {
				continue
			}
			if _, seen := expanded[v]; seen {
				continue
			}
			expanded[v] = struct{}{}
			for _, m := range v.Members {
				queue = append(queue, walkEntry{key: m.Key, value: m.Value, parent: v})
			}
		case *Array:
			if v == nil {
				continue
			}
			if _, seen := expanded[v]; seen {
				continue
			}
			expanded[v] = struct{}{}
			for i, item := range v.Items {
				queue = append(queue, walkEntry{key: strconv.Itoa(i), value: item, parent: v})
			}
		}
	}
}
