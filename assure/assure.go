// Package assure checks the shape of JSON trees at trust boundaries. Every
// check returns nil or a *jsonkit.Error with code validation_failed whose
// diagnostics name the offending input.
package assure

import (
	jsonkit "github.com/reoring/jsonkit"
)

const (
	msgNonNull        = "Required non null json element"
	msgArray          = "Required an array, but got something else."
	msgObject         = "Required an object, but got something else."
	msgPrimitive      = "Required a json primitive, but got something else."
	msgFieldMissing   = "Found a field that is missing."
	msgFieldPresent   = "Found a field that should have been absent"
	msgFieldPrimitive = "Found a fields that should have been a json primitive."
	msgFieldNonEmpty  = "Found a field that should have been a non empty string."
)

func fail(msg string, pairs ...jsonkit.Pair) error {
	return jsonkit.NewError(jsonkit.CodeValidationFailed, msg, jsonkit.ObjectOf(pairs...))
}

// NonNull fails for nil, Null and Missing nodes.
func NonNull(n *jsonkit.Node) error {
	if n == nil || n.IsNull() || n.IsMissing() {
		return fail(msgNonNull,
			jsonkit.KV("original", n),
			jsonkit.KV("jsonNull", n != nil && n.IsNull()),
		)
	}
	return nil
}

// NonNulls runs NonNull on each node and stops at the first failure.
func NonNulls(ns ...*jsonkit.Node) error { return each(NonNull, ns) }

// Array requires a non-null array.
func Array(n *jsonkit.Node) error {
	if err := NonNull(n); err != nil {
		return err
	}
	if !n.IsArray() {
		return fail(msgArray, jsonkit.KV("original", n))
	}
	return nil
}

// Arrays runs Array on each node.
func Arrays(ns ...*jsonkit.Node) error { return each(Array, ns) }

// Object requires a non-null object.
func Object(n *jsonkit.Node) error {
	if err := NonNull(n); err != nil {
		return err
	}
	if !n.IsObject() {
		return fail(msgObject, jsonkit.KV("original", n))
	}
	return nil
}

// Objects runs Object on each node.
func Objects(ns ...*jsonkit.Node) error { return each(Object, ns) }

// PrimitiveValue requires a non-null node that is neither array nor object.
func PrimitiveValue(n *jsonkit.Node) error {
	if err := NonNull(n); err != nil {
		return err
	}
	if n.IsContainer() {
		return fail(msgPrimitive, jsonkit.KV("original", n))
	}
	return nil
}

// PrimitiveValues runs PrimitiveValue on each node.
func PrimitiveValues(ns ...*jsonkit.Node) error { return each(PrimitiveValue, ns) }

// Fields requires an object where every key is present and not null.
func Fields(n *jsonkit.Node, keys ...string) error {
	if err := Object(n); err != nil {
		return err
	}
	for _, k := range keys {
		if !n.Has(k) || n.Get(k).IsNull() {
			return fail(msgFieldMissing, fieldPairs(n, keys, k)...)
		}
	}
	return nil
}

// Absence requires an object that has none of the keys, not even as null.
func Absence(n *jsonkit.Node, keys ...string) error {
	if err := Object(n); err != nil {
		return err
	}
	for _, k := range keys {
		if n.Has(k) {
			return fail(msgFieldPresent, fieldPairs(n, keys, k)...)
		}
	}
	return nil
}

// PrimitiveFields requires the keys to be present with scalar values.
func PrimitiveFields(n *jsonkit.Node, keys ...string) error {
	if err := Fields(n, keys...); err != nil {
		return err
	}
	for _, k := range keys {
		if v := n.Get(k); v.IsContainer() {
			return fail(msgFieldPrimitive, append(fieldPairs(n, keys, k), jsonkit.KV("value", v))...)
		}
	}
	return nil
}

// NonEmptyStrings requires the keys to hold non-empty strings.
func NonEmptyStrings(n *jsonkit.Node, keys ...string) error {
	if err := PrimitiveFields(n, keys...); err != nil {
		return err
	}
	for _, k := range keys {
		v := n.Get(k)
		if s, ok := v.StringValue(); !ok || s == "" {
			return fail(msgFieldNonEmpty, append(fieldPairs(n, keys, k), jsonkit.KV("value", v))...)
		}
	}
	return nil
}

// All runs checks in order and returns the first failure.
func All(checks ...func() error) error {
	for _, c := range checks {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}

func each(check func(*jsonkit.Node) error, ns []*jsonkit.Node) error {
	for _, n := range ns {
		if err := check(n); err != nil {
			return err
		}
	}
	return nil
}

func fieldPairs(n *jsonkit.Node, keys []string, key string) []jsonkit.Pair {
	return []jsonkit.Pair{
		jsonkit.KV("original", n),
		jsonkit.KV("fields", keys),
		jsonkit.KV("field", key),
	}
}
