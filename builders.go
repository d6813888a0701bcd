package jsonkit

import (
	"maps"
	"slices"
)

// Pair is one key/value of an object under construction.
type Pair struct {
	Key   string
	Value *Node
}

// KV makes a Pair, coercing value with ValueOf.
func KV(key string, value any) Pair { return Pair{Key: key, Value: ValueOf(value)} }

// ObjectOf builds an object from pairs. Later duplicates replace the value and
// keep the first position.
func ObjectOf(pairs ...Pair) *Node {
	o := NewObject()
	for _, p := range pairs {
		o.Set(p.Key, p.Value)
	}
	return o
}

// ObjectNode builds an object from an alternating key, value, key, value
// list. Values are coerced with ValueOf.
//
// An odd-length list fails with CodeInvalidArgumentCount and the diagnostics
// "length" and "arguments"; a key that is not a string fails with
// CodeInvalidArgument.
func ObjectNode(args ...any) (*Node, error) {
	n, err := objectNode(nil, args)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ObjectNodeWith is ObjectNode where POJO values resolve through enc.
func ObjectNodeWith(enc Encoder, args ...any) (*Node, error) {
	n, err := objectNode(enc, args)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// MustObjectNode is like ObjectNode but panics with the *Error on misuse.
func MustObjectNode(args ...any) *Node {
	n, err := objectNode(nil, args)
	if err != nil {
		panic(err)
	}
	return n
}

func objectNode(enc Encoder, args []any) (*Node, *Error) {
	if len(args)%2 != 0 {
		return nil, NewError(CodeInvalidArgumentCount,
			"Can only create object node from even number of arguments",
			ObjectOf(KV("length", len(args)), KV("arguments", POJO(args))))
	}
	o := NewObject()
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			return nil, NewError(CodeInvalidArgument,
				"Object keys must be strings",
				ObjectOf(KV("index", i), KV("key", POJO(args[i]))))
		}
		o.Set(key, valueOf(args[i+1], enc))
	}
	return o, nil
}

// ObjectFromMap builds an object from m with keys in sorted order.
func ObjectFromMap[V any](m map[string]V) *Node {
	o := NewObject()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		o.Set(k, ValueOf(m[k]))
	}
	return o
}

// ObjectFromOrdered builds an object keeping the list order.
func ObjectFromOrdered(entries Ordered) *Node {
	o := NewObject()
	for _, e := range entries {
		o.Set(e.Key, ValueOf(e.Value))
	}
	return o
}

// ArrayNode builds an array, coercing each argument with ValueOf.
func ArrayNode(args ...any) *Node { return arrayNode(nil, args) }

// ArrayNodeWith is ArrayNode where POJO values resolve through enc.
func ArrayNodeWith(enc Encoder, args ...any) *Node { return arrayNode(enc, args) }

func arrayNode(enc Encoder, args []any) *Node {
	a := &Node{kind: KindArray, elems: make([]*Node, len(args))}
	for i, v := range args {
		a.elems[i] = valueOf(v, enc)
	}
	return a
}

// ArrayOf builds an array from a typed slice.
func ArrayOf[T any](items []T) *Node {
	a := &Node{kind: KindArray, elems: make([]*Node, len(items))}
	for i, v := range items {
		a.elems[i] = ValueOf(v)
	}
	return a
}

// ArrayMap applies fn to every item before coercion.
func ArrayMap[T any](items []T, fn func(T) any) *Node {
	a := &Node{kind: KindArray, elems: make([]*Node, len(items))}
	for i, v := range items {
		a.elems[i] = ValueOf(fn(v))
	}
	return a
}

// ObjectCreator has the ObjectNode signature without the error; misuse
// aborts the enclosing Build.
type ObjectCreator func(args ...any) *Node

// ArrayCreator has the ArrayNode signature.
type ArrayCreator func(args ...any) *Node

// Build hands fn a pair of creators so nested trees can be written as one
// expression:
//
//	n, err := jsonkit.Build(func(o jsonkit.ObjectCreator, a jsonkit.ArrayCreator) *jsonkit.Node {
//		return o("name", "ada", "tags", a("x", "y"))
//	})
//
// A creator failure stops fn and is returned as the error.
func Build[T any](fn func(obj ObjectCreator, arr ArrayCreator) T) (T, error) {
	return BuildWith(nil, fn)
}

// BuildWith is Build where the creators attach enc to every POJO they make.
func BuildWith[T any](enc Encoder, fn func(obj ObjectCreator, arr ArrayCreator) T) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			var zero T
			out, err = zero, e
		}
	}()
	obj := func(args ...any) *Node {
		n, err := objectNode(enc, args)
		if err != nil {
			panic(err)
		}
		return n
	}
	arr := func(args ...any) *Node { return arrayNode(enc, args) }
	return fn(obj, arr), nil
}
