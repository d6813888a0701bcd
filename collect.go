package jsonkit

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// Collector folds a sequence of values into an array or object node.
// Combine must be associative so partial results can be built independently
// and joined in order.
type Collector[T any] struct {
	// Supply returns a fresh, empty accumulator.
	Supply func() *Node
	// Accumulate adds one value to acc.
	Accumulate func(acc *Node, v T) error
	// Combine joins two partial results, left before right.
	Combine func(left, right *Node) *Node
}

// Collect runs the collector over seq.
func (c Collector[T]) Collect(seq iter.Seq[T]) (*Node, error) {
	acc := c.Supply()
	for v := range seq {
		if err := c.Accumulate(acc, v); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// CollectSlice runs the collector over items.
func (c Collector[T]) CollectSlice(items []T) (*Node, error) {
	acc := c.Supply()
	for _, v := range items {
		if err := c.Accumulate(acc, v); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func newArray() *Node { return &Node{kind: KindArray, elems: []*Node{}} }

func concatArrays(left, right *Node) *Node {
	left.elems = append(left.elems, right.elems...)
	return left
}

func overlayObjects(left, right *Node) *Node { return left.SetAll(right) }

// ToArray collects values into an array, coercing each with ValueOf.
func ToArray[T any]() Collector[T] {
	return Collector[T]{
		Supply: newArray,
		Accumulate: func(acc *Node, v T) error {
			acc.Add(ValueOf(v))
			return nil
		},
		Combine: concatArrays,
	}
}

// ToArrayWith collects values into an array, converting each through enc.
func ToArrayWith[T any](enc Encoder) Collector[T] {
	return Collector[T]{
		Supply: newArray,
		Accumulate: func(acc *Node, v T) error {
			n, err := enc.Encode(v)
			if err != nil {
				return err
			}
			acc.Add(n)
			return nil
		},
		Combine: concatArrays,
	}
}

// ToObject collects values into an object under key(v). Values are coerced
// with ValueOf; a repeated key keeps the last value.
func ToObject[T any](key func(T) string, value func(T) any) Collector[T] {
	return Collector[T]{
		Supply: NewObject,
		Accumulate: func(acc *Node, v T) error {
			acc.Set(key(v), ValueOf(value(v)))
			return nil
		},
		Combine: overlayObjects,
	}
}

// ToObjectWith is ToObject converting values through enc.
func ToObjectWith[T any](enc Encoder, key func(T) string, value func(T) any) Collector[T] {
	return Collector[T]{
		Supply: NewObject,
		Accumulate: func(acc *Node, v T) error {
			n, err := enc.Encode(value(v))
			if err != nil {
				return err
			}
			acc.Set(key(v), n)
			return nil
		},
		Combine: overlayObjects,
	}
}

// EntriesToObject collects entries into an object.
func EntriesToObject() Collector[Entry] {
	return ToObject(entryKey, entryValue)
}

// EntriesToObjectWith collects entries, converting values through enc.
func EntriesToObjectWith(enc Encoder) Collector[Entry] {
	return ToObjectWith(enc, entryKey, entryValue)
}

func entryKey(e Entry) string { return e.Key }
func entryValue(e Entry) any  { return e.Value }

// Parallel splits items into at most parts contiguous partitions, folds each
// on its own goroutine and combines the partial results in partition order,
// so the result matches a sequential CollectSlice. ctx is checked between
// elements.
func Parallel[T any](ctx context.Context, c Collector[T], items []T, parts int) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if parts < 1 {
		parts = 1
	}
	if parts > len(items) {
		parts = max(len(items), 1)
	}
	size := (len(items) + parts - 1) / parts
	partials := make([]*Node, parts)

	g, gctx := errgroup.WithContext(ctx)
	for p := range parts {
		lo := min(p*size, len(items))
		hi := min(lo+size, len(items))
		g.Go(func() error {
			acc := c.Supply()
			for _, v := range items[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := c.Accumulate(acc, v); err != nil {
					return err
				}
			}
			partials[p] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := partials[0]
	for _, part := range partials[1:] {
		out = c.Combine(out, part)
	}
	return out, nil
}
