package jsonkit

import (
	"iter"
	"maps"
	"slices"
)

// Elements iterates over array elements; it yields nothing for other kinds.
func (n *Node) Elements() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if !n.IsArray() {
			return
		}
		for _, e := range n.elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Fields iterates over object members in insertion order; it yields nothing
// for other kinds.
func (n *Node) Fields() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		if !n.IsObject() {
			return
		}
		for _, f := range n.fields {
			if !yield(f.key, f.value) {
				return
			}
		}
	}
}

// OrderedMap is a read-only map that remembers insertion order.
type OrderedMap[T any] struct {
	keys   []string
	values map[string]T
}

func (m *OrderedMap[T]) Len() int { return len(m.keys) }

// Get returns the value for key.
func (m *OrderedMap[T]) Get(key string) (T, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in order.
func (m *OrderedMap[T]) Keys() []string { return slices.Clone(m.keys) }

// All iterates in insertion order.
func (m *OrderedMap[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Map returns a copy as a plain Go map.
func (m *OrderedMap[T]) Map() map[string]T { return maps.Clone(m.values) }

// Native converts the tree into plain Go values: nil, bool, int64 / uint64 /
// *big.Int, float64, string, []byte, []any and map[string]any. Decimal
// numbers become float64. POJOs are returned as wrapped; Missing gives nil.
func (n *Node) Native() any {
	switch n.Kind() {
	case KindBool:
		return n.b
	case KindNumber:
		switch n.num.form {
		case numInt:
			return n.num.i
		case numUint:
			return n.num.u
		case numBig:
			return n.num.big
		}
		return n.num.float64()
	case KindString:
		return n.str
	case KindBinary:
		return n.bin
	case KindPOJO:
		return n.pojo
	case KindArray:
		out := make([]any, len(n.elems))
		for i, e := range n.elems {
			out[i] = e.Native()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.fields))
		for _, f := range n.fields {
			out[f.key] = f.value.Native()
		}
		return out
	}
	return nil
}
