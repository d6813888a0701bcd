package jsonkit

// Functional helpers over arrays and objects. Every helper checks the shape of
// its input first and fails with CodeWrongShape, carrying the offending node
// under "json", when it gets the wrong kind of node.

// Contains reports whether array holds an element structurally equal to value.
func Contains(array, value *Node) (bool, error) {
	if !array.IsArray() {
		return false, wrongShape("Can only check containment in arrays", array)
	}
	for _, e := range array.elems {
		if e.Equal(value) {
			return true, nil
		}
	}
	return false, nil
}

// Map returns a new array holding fn applied to every element.
func Map(array *Node, fn func(*Node) *Node) (*Node, error) {
	if !array.IsArray() {
		return nil, wrongShape("Can only map over arrays", array)
	}
	out := &Node{kind: KindArray, elems: make([]*Node, 0, len(array.elems))}
	for _, e := range array.elems {
		out.Add(fn(e))
	}
	return out, nil
}

// MapObjects is Map for arrays of objects. A non-object element fails with
// CodeNonObjectElement.
func MapObjects(array *Node, fn func(*Node) *Node) (*Node, error) {
	if !array.IsArray() {
		return nil, wrongShape("Can only map over arrays", array)
	}
	out := &Node{kind: KindArray, elems: make([]*Node, 0, len(array.elems))}
	for i, e := range array.elems {
		if !e.IsObject() {
			return nil, nonObjectElement("Mapping objects encountered a non object node", i, e, array)
		}
		out.Add(fn(e))
	}
	return out, nil
}

// Filter returns a new array with the elements matching pred, in order.
func Filter(array *Node, pred func(*Node) bool) (*Node, error) {
	if !array.IsArray() {
		return nil, wrongShape("Can only filter arrays", array)
	}
	out := &Node{kind: KindArray, elems: []*Node{}}
	for _, e := range array.elems {
		if pred(e) {
			out.elems = append(out.elems, e)
		}
	}
	return out, nil
}

// FilterObjects is Filter for arrays of objects.
func FilterObjects(array *Node, pred func(*Node) bool) (*Node, error) {
	if !array.IsArray() {
		return nil, wrongShape("Can only filter arrays", array)
	}
	out := &Node{kind: KindArray, elems: []*Node{}}
	for i, e := range array.elems {
		if !e.IsObject() {
			return nil, nonObjectElement("Filtering objects encountered a non object node", i, e, array)
		}
		if pred(e) {
			out.elems = append(out.elems, e)
		}
	}
	return out, nil
}

// Find returns the first element matching pred, or Missing.
func Find(array *Node, pred func(*Node) bool) (*Node, error) {
	if !array.IsArray() {
		return nil, wrongShape("Can only find in arrays", array)
	}
	for _, e := range array.elems {
		if pred(e) {
			return e, nil
		}
	}
	return Missing(), nil
}

// FindObject is Find for arrays of objects.
func FindObject(array *Node, pred func(*Node) bool) (*Node, error) {
	if !array.IsArray() {
		return nil, wrongShape("Can only find in arrays", array)
	}
	for i, e := range array.elems {
		if !e.IsObject() {
			return nil, nonObjectElement("Finding an object encountered a non object node", i, e, array)
		}
		if pred(e) {
			return e, nil
		}
	}
	return Missing(), nil
}

// Concat returns a new array with the elements of every input in order.
func Concat(arrays ...*Node) (*Node, error) {
	out := &Node{kind: KindArray, elems: []*Node{}}
	for _, a := range arrays {
		if !a.IsArray() {
			return nil, wrongShape("Can only concatenate arrays", a)
		}
		out.elems = append(out.elems, a.elems...)
	}
	return out, nil
}

// Reduce folds the array from the left starting with init.
func Reduce[T any](array *Node, init T, fn func(T, *Node) T) (T, error) {
	if !array.IsArray() {
		return init, wrongShape("Can only reduce arrays", array)
	}
	acc := init
	for _, e := range array.elems {
		acc = fn(acc, e)
	}
	return acc, nil
}

// Keep returns a new object holding only the listed keys that obj has, in
// the order of keys. Values are shared with obj.
func Keep(obj *Node, keys ...string) (*Node, error) {
	if !obj.IsObject() {
		return nil, wrongShape("Can only select keys from objects", obj)
	}
	out := NewObject()
	for _, k := range keys {
		if i, ok := obj.index[k]; ok {
			out.Set(k, obj.fields[i].value)
		}
	}
	return out, nil
}

// Purge returns a new object without the listed keys. Values are shared with
// obj.
func Purge(obj *Node, keys ...string) (*Node, error) {
	if !obj.IsObject() {
		return nil, wrongShape("Can only purge keys from objects", obj)
	}
	out := NewObject().SetAll(obj)
	for _, k := range keys {
		out.Remove(k)
	}
	return out, nil
}

// Merge copies every field of each source into target, last write wins. Nil,
// Null and Missing sources are skipped. Merge mutates and returns target.
func Merge(target *Node, sources ...*Node) (*Node, error) {
	if !target.IsObject() {
		return nil, wrongShape("Can only merge into objects", target)
	}
	for _, src := range sources {
		switch src.Kind() {
		case KindMissing, KindNull:
			continue
		case KindObject:
			target.SetAll(src)
		default:
			return nil, wrongShape("Can only merge objects", src)
		}
	}
	return target, nil
}

// MergeAbsent copies fields of each source into target only when target does
// not have the key yet, so the first writer wins. It mutates and returns
// target.
func MergeAbsent(target *Node, sources ...*Node) (*Node, error) {
	if !target.IsObject() {
		return nil, wrongShape("Can only merge into objects", target)
	}
	for _, src := range sources {
		switch src.Kind() {
		case KindMissing, KindNull:
			continue
		case KindObject:
			for _, f := range src.fields {
				if !target.Has(f.key) {
					target.Set(f.key, f.value)
				}
			}
		default:
			return nil, wrongShape("Can only merge objects", src)
		}
	}
	return target, nil
}

// ComputeIfAbsent stores fn(target, key) under key when target lacks it.
// A key holding Null counts as present. fn is not called otherwise.
// ComputeIfAbsent mutates and returns target.
func ComputeIfAbsent(target *Node, key string, fn func(obj *Node, key string) *Node) (*Node, error) {
	if !target.IsObject() {
		return nil, wrongShape("Can only compute missing values on objects", target)
	}
	if !target.Has(key) {
		target.Set(key, fn(target, key))
	}
	return target, nil
}

// PurgeNulls drops Null members from an object or Null elements from an
// array. When nothing is dropped the input itself is returned; otherwise a
// new container sharing the remaining values.
func PurgeNulls(n *Node) (*Node, error) {
	switch n.Kind() {
	case KindObject:
		var out *Node
		for _, f := range n.fields {
			if f.value.IsNull() {
				if out == nil {
					out = NewObject().SetAll(n)
				}
				out.Remove(f.key)
			}
		}
		if out == nil {
			return n, nil
		}
		return out, nil
	case KindArray:
		kept := make([]*Node, 0, len(n.elems))
		for _, e := range n.elems {
			if !e.IsNull() {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(n.elems) {
			return n, nil
		}
		return &Node{kind: KindArray, elems: kept}, nil
	}
	return nil, NewError(CodeWrongShape, "Can only purge nulls from object and array nodes",
		ObjectOf(KV("type", n.Kind().String()), KV("json", n)))
}

// ToList applies fn to every element and collects the results.
func ToList[T any](array *Node, fn func(*Node) T) ([]T, error) {
	if !array.IsArray() {
		return nil, wrongShape("Can only convert arrays to lists", array)
	}
	out := make([]T, len(array.elems))
	for i, e := range array.elems {
		out[i] = fn(e)
	}
	return out, nil
}

// ToMap applies fn to every field and collects the results keyed by field
// name, keeping the object's order.
func ToMap[T any](obj *Node, fn func(key string, value *Node) T) (*OrderedMap[T], error) {
	if !obj.IsObject() {
		return nil, wrongShape("Can only turn objects into maps", obj)
	}
	m := &OrderedMap[T]{keys: make([]string, 0, len(obj.fields)), values: make(map[string]T, len(obj.fields))}
	for _, f := range obj.fields {
		m.keys = append(m.keys, f.key)
		m.values[f.key] = fn(f.key, f.value)
	}
	return m, nil
}
