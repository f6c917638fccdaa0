package walker

import (
	"bytes"
	"encoding/json"
)

// Tree is a nested mapping mirroring the bucket's delimiter hierarchy. Every
// entry is either a common prefix mapped to a sub-tree or an object key mapped
// to a nil leaf marker; no key appears as both in the same node.
//
// Entries preserve discovery order (the order the lister returned them), so
// flattening and JSON rendering are stable across repeated calls on an
// unchanged bucket.
type Tree struct {
	keys     []string
	children map[string]*Tree
}

// NewTree returns an empty tree node.
func NewTree() *Tree {
	return &Tree{children: make(map[string]*Tree)}
}

// add inserts an entry. A nil child marks a leaf file.
func (t *Tree) add(key string, child *Tree) {
	if _, ok := t.children[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.children[key] = child
}

// Keys returns the node's entries in discovery order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Child returns the sub-tree stored under key. A (nil, true) result means the
// key is a leaf file entry.
func (t *Tree) Child(key string) (*Tree, bool) {
	child, ok := t.children[key]
	return child, ok
}

// IsLeaf reports whether key is present as a file entry.
func (t *Tree) IsLeaf(key string) bool {
	child, ok := t.children[key]
	return ok && child == nil
}

// Len returns the number of entries in this node.
func (t *Tree) Len() int {
	return len(t.keys)
}

// Leaves returns every file key in the subtree, depth-first in discovery
// order.
func (t *Tree) Leaves() []string {
	var out []string
	t.appendLeaves(&out)
	return out
}

func (t *Tree) appendLeaves(out *[]string) {
	for _, key := range t.keys {
		if child := t.children[key]; child == nil {
			*out = append(*out, key)
		} else {
			child.appendLeaves(out)
		}
	}
}

// MarshalJSON renders the tree as a nested object with null leaf markers,
// preserving discovery order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if child := t.children[key]; child == nil {
			buf.WriteString("null")
		} else {
			nested, err := child.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(nested)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
