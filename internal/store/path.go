package store

import (
	"fmt"
	"strconv"
)

// resolvePath walks a document along path segments. Numeric segments
// index into lists; everything else keys into objects.
func resolvePath(node any, path []string) (any, bool) {
	for _, seg := range path {
		switch n := node.(type) {
		case map[string]any:
			child, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = child
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

// setPath writes value at the path inside root. Missing intermediate
// objects are created so new keys (e.g. derived metrics) can land in a
// previously empty subtree; list elements must already exist, an index
// past the end is a bad path.
func setPath(root map[string]any, path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("empty path")
	}

	var node any = root
	for i, seg := range path[:len(path)-1] {
		switch n := node.(type) {
		case map[string]any:
			child, ok := n[seg]
			if !ok || child == nil {
				if _, err := strconv.Atoi(path[i+1]); err == nil {
					return fmt.Errorf("segment %q: cannot create a list implicitly", seg)
				}
				m := map[string]any{}
				n[seg] = m
				node = m
				continue
			}
			node = child
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return fmt.Errorf("segment %q: list requires a numeric index", seg)
			}
			if idx < 0 || idx >= len(n) {
				return fmt.Errorf("segment %q: index out of range (len %d)", seg, len(n))
			}
			node = n[idx]
		default:
			return fmt.Errorf("segment %q: cannot descend into %T", seg, node)
		}
	}

	last := path[len(path)-1]
	switch n := node.(type) {
	case map[string]any:
		n[last] = value
	case []any:
		idx, err := strconv.Atoi(last)
		if err != nil {
			return fmt.Errorf("segment %q: list requires a numeric index", last)
		}
		if idx < 0 || idx >= len(n) {
			return fmt.Errorf("segment %q: index out of range (len %d)", last, len(n))
		}
		n[idx] = value
	default:
		return fmt.Errorf("segment %q: cannot assign into %T", last, node)
	}
	return nil
}
