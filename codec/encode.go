package codec

import (
	"encoding"
	"fmt"
	"maps"
	"math/big"
	"reflect"
	"slices"
	"strconv"

	jsonkit "github.com/reoring/jsonkit"
)

// maxEncodeDepth guards against cyclic pointers.
const maxEncodeDepth = 1000

type jsonMarshaler interface {
	MarshalJSON() ([]byte, error)
}

// Encode converts v into a tree. Resolution order:
//
//  1. a hook registered for the exact dynamic type of v
//  2. *jsonkit.Node (a POJO node is resolved), *jsonkit.Error (its envelope),
//     Entry and Ordered
//  3. scalars, []byte, *big.Int and *big.Float as jsonkit.ValueOf does
//  4. json.Marshaler and encoding.TextMarshaler implementations
//  5. pointers, slices, arrays, maps and structs by reflection; struct keys
//     follow jsonkit.ResolveStructKey
func (c *Codec) Encode(v any) (*jsonkit.Node, error) { return c.encode(v, 0) }

// ValueOf is Encode under the toolkit's name.
func (c *Codec) ValueOf(v any) (*jsonkit.Node, error) { return c.encode(v, 0) }

// ObjectNode builds an object from alternating keys and values, encoding every
// value through c.
func (c *Codec) ObjectNode(args ...any) (*jsonkit.Node, error) {
	if len(args)%2 != 0 {
		return jsonkit.ObjectNode(args...)
	}
	encoded := make([]any, len(args))
	for i, a := range args {
		if i%2 == 0 {
			encoded[i] = a
			continue
		}
		n, err := c.encode(a, 0)
		if err != nil {
			return nil, err
		}
		encoded[i] = n
	}
	return jsonkit.ObjectNode(encoded...)
}

// ArrayNode builds an array encoding every value through c.
func (c *Codec) ArrayNode(args ...any) (*jsonkit.Node, error) {
	out := jsonkit.NewArray()
	for _, a := range args {
		n, err := c.encode(a, 0)
		if err != nil {
			return nil, err
		}
		out.Add(n)
	}
	return out, nil
}

func (c *Codec) encode(v any, depth int) (*jsonkit.Node, error) {
	if v == nil {
		return jsonkit.Null(), nil
	}
	if depth > maxEncodeDepth {
		return nil, jsonkit.NewError(jsonkit.CodeInvalidArgument, "Value nesting is too deep to encode",
			jsonkit.ObjectOf(jsonkit.KV("type", fmt.Sprintf("%T", v))))
	}
	if fn, ok := c.encoderFor(reflect.TypeOf(v)); ok {
		return fn(v)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if fn, ok := c.encoderFor(rv.Type().Elem()); ok {
			return fn(rv.Elem().Interface())
		}
	}

	switch x := v.(type) {
	case *jsonkit.Node:
		if x == nil {
			return jsonkit.Null(), nil
		}
		return x.Resolve(c)
	case *jsonkit.Error:
		if x == nil {
			return jsonkit.Null(), nil
		}
		return x.Envelope(), nil
	case jsonkit.Entry:
		return c.encodeEntries([]jsonkit.Entry{x}, depth)
	case jsonkit.Ordered:
		return c.encodeEntries(x, depth)
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, []byte, *big.Int, *big.Float:
		return jsonkit.ValueOf(x), nil
	case jsonMarshaler:
		if isNilPointer(v) {
			return jsonkit.Null(), nil
		}
		b, err := x.MarshalJSON()
		if err != nil {
			return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
		}
		return c.Decode(b)
	case encoding.TextMarshaler:
		if isNilPointer(v) {
			return jsonkit.Null(), nil
		}
		b, err := x.MarshalText()
		if err != nil {
			return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
		}
		return jsonkit.String(string(b)), nil
	}
	return c.encodeReflect(reflect.ValueOf(v), depth)
}

func (c *Codec) encodeEntries(entries []jsonkit.Entry, depth int) (*jsonkit.Node, error) {
	if entries == nil {
		return jsonkit.Null(), nil
	}
	out := jsonkit.NewObject()
	for _, e := range entries {
		n, err := c.encode(e.Value, depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(e.Key, n)
	}
	return out, nil
}

func (c *Codec) encodeReflect(rv reflect.Value, depth int) (*jsonkit.Node, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return jsonkit.Null(), nil
		}
		return c.encode(rv.Elem().Interface(), depth+1)
	case reflect.Struct:
		out := jsonkit.NewObject()
		if err := c.encodeStruct(out, rv, depth); err != nil {
			return nil, err
		}
		return out, nil
	case reflect.Slice:
		if rv.IsNil() {
			return jsonkit.Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return jsonkit.Binary(rv.Bytes()), nil
		}
		return c.encodeList(rv, depth)
	case reflect.Array:
		return c.encodeList(rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			return jsonkit.Null(), nil
		}
		return c.encodeMap(rv, depth)
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return nil, jsonkit.NewError(jsonkit.CodeInvalidArgument, "Unsupported type for JSON",
			jsonkit.ObjectOf(jsonkit.KV("type", rv.Type().String())))
	}
	// Named scalar kinds.
	return jsonkit.ValueOf(rv.Interface()), nil
}

func (c *Codec) encodeList(rv reflect.Value, depth int) (*jsonkit.Node, error) {
	out := jsonkit.NewArray()
	for i := range rv.Len() {
		n, err := c.encode(rv.Index(i).Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out.Add(n)
	}
	return out, nil
}

func (c *Codec) encodeMap(rv reflect.Value, depth int) (*jsonkit.Node, error) {
	keyed := make(map[string]reflect.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := mapKey(iter.Key())
		if err != nil {
			return nil, err
		}
		keyed[k] = iter.Value()
	}
	out := jsonkit.NewObject()
	for _, k := range slices.Sorted(maps.Keys(keyed)) {
		n, err := c.encode(keyed[k].Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(k, n)
	}
	return out, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return "", jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
		}
		return string(b), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", jsonkit.NewError(jsonkit.CodeInvalidArgument, "Unsupported map key type",
		jsonkit.ObjectOf(jsonkit.KV("type", k.Type().String())))
}

// encodeStruct writes exported fields into out. Untagged embedded structs
// are flattened into the parent.
func (c *Codec) encodeStruct(out *jsonkit.Node, rv reflect.Value, depth int) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		fv := rv.Field(i)
		if sf.Anonymous && sf.IsExported() && sf.Tag.Get("json") == "" && sf.Tag.Get("jsonkit") == "" {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				if err := c.encodeStruct(out, inner, depth); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		name, omitEmpty := jsonkit.ResolveStructKey(sf)
		if name == "-" {
			continue
		}
		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		n, err := c.encode(fv.Interface(), depth+1)
		if err != nil {
			return err
		}
		out.Set(name, n)
	}
	return nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
