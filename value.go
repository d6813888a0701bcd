package jsonkit

import (
	"maps"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Entry is a single key/value pair. It coerces to a one-field object.
type Entry struct {
	Key   string
	Value any
}

// Ordered is a key/value list that coerces to an object in list order.
type Ordered []Entry

// numberText matches json.Number style types (encoding/json and go-json).
type numberText interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// ValueOf coerces a Go value into a Node. It never fails:
//
//   - nil, typed nil pointers, nil slices and nil maps become Null
//   - a *Node is returned unchanged
//   - strings, booleans and every numeric type map to the matching scalar;
//     *big.Int and *big.Float keep full precision
//   - []byte becomes Binary
//   - slices and arrays become arrays, string-keyed maps become objects with
//     sorted keys, Ordered and Entry become objects in list order
//   - anything else is wrapped as a POJO
//
// ValueOf(ValueOf(v)) is ValueOf(v).
func ValueOf(v any) *Node { return valueOf(v, nil) }

// valueOf coerces v; POJOs created on the way record enc as their encoder.
func valueOf(v any, enc Encoder) *Node {
	switch x := v.(type) {
	case nil:
		return Null()
	case *Node:
		if x == nil {
			return Null()
		}
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Uint(uint64(x))
	case uint8:
		return Uint(uint64(x))
	case uint16:
		return Uint(uint64(x))
	case uint32:
		return Uint(uint64(x))
	case uint64:
		return Uint(x)
	case float32:
		return float32Node(x)
	case float64:
		return Float(x)
	case *big.Int:
		return BigInt(x)
	case *big.Float:
		return BigFloat(x)
	case []byte:
		return Binary(x)
	case []any:
		if x == nil {
			return Null()
		}
		a := &Node{kind: KindArray, elems: make([]*Node, len(x))}
		for i, e := range x {
			a.elems[i] = valueOf(e, enc)
		}
		return a
	case map[string]any:
		if x == nil {
			return Null()
		}
		o := NewObject()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			o.Set(k, valueOf(x[k], enc))
		}
		return o
	case Entry:
		return NewObject().Set(x.Key, valueOf(x.Value, enc))
	case Ordered:
		return orderedObject(x, enc)
	case []Entry:
		return orderedObject(x, enc)
	}
	return reflectValue(v, enc)
}

func orderedObject(entries []Entry, enc Encoder) *Node {
	if entries == nil {
		return Null()
	}
	o := NewObject()
	for _, e := range entries {
		o.Set(e.Key, valueOf(e.Value, enc))
	}
	return o
}

// reflectValue handles named types by their underlying kind.
func reflectValue(v any, enc Encoder) *Node {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		if rv.Elem().Kind() == reflect.Struct {
			return POJOWith(v, enc)
		}
		return valueOf(rv.Elem().Interface(), enc)
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint())
	case reflect.Float32:
		return float32Node(float32(rv.Float()))
	case reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		if nt, ok := v.(numberText); ok {
			return numberFromText(nt.String())
		}
		return String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return Null()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Binary(rv.Bytes())
		}
		return reflectArray(rv, enc)
	case reflect.Array:
		return reflectArray(rv, enc)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return POJOWith(v, enc)
		}
		if rv.IsNil() {
			return Null()
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) })
		o := NewObject()
		for _, k := range keys {
			o.Set(k.String(), valueOf(rv.MapIndex(k).Interface(), enc))
		}
		return o
	case reflect.Chan, reflect.Func, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
	}
	return POJOWith(v, enc)
}

func reflectArray(rv reflect.Value, enc Encoder) *Node {
	a := &Node{kind: KindArray, elems: make([]*Node, rv.Len())}
	for i := range rv.Len() {
		a.elems[i] = valueOf(rv.Index(i).Interface(), enc)
	}
	return a
}

// numberFromText turns a numeric literal into a number node. Text that is not
// a number literal stays a string.
func numberFromText(text string) *Node {
	num, ok := parseNumber(text, false)
	if !ok {
		return String(text)
	}
	return &Node{kind: KindNumber, num: num}
}

// float32Node keeps the shortest float32 text, so float32(0.1) renders as 0.1.
func float32Node(f float32) *Node {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return Float(float64(f))
	}
	text := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return &Node{kind: KindNumber, num: number{form: numDecimal, text: text}}
}
