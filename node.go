package jsonkit

import (
	"bytes"
	"math/big"
	"reflect"
	"slices"
)

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindBinary
	KindArray
	KindObject
	KindPOJO
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindPOJO:
		return "pojo"
	}
	return "unknown"
}

// Node is a JSON tree value. Arrays and objects are mutable containers; every
// other variant is immutable once created.
//
// A nil *Node stands for "no value at all" and behaves like Missing for every
// accessor.
type Node struct {
	kind   Kind
	b      bool
	num    number
	str    string
	bin    []byte
	elems  []*Node
	fields []field
	index  map[string]int
	pojo   any
	enc    Encoder
}

type field struct {
	key   string
	value *Node
}

var (
	missingNode = &Node{kind: KindMissing}
	nullNode    = &Node{kind: KindNull}
	trueNode    = &Node{kind: KindBool, b: true}
	falseNode   = &Node{kind: KindBool}
)

// Missing returns the node used for absent children.
func Missing() *Node { return missingNode }

// Null returns the JSON null node.
func Null() *Node { return nullNode }

// Bool returns a boolean node.
func Bool(b bool) *Node {
	if b {
		return trueNode
	}
	return falseNode
}

// Int returns an integral number node.
func Int(i int64) *Node { return &Node{kind: KindNumber, num: number{form: numInt, i: i}} }

// Uint returns an integral number node.
func Uint(u uint64) *Node { return &Node{kind: KindNumber, num: number{form: numUint, u: u}} }

// Float returns a floating number node. NaN and infinities are accepted here
// but fail when rendered as text.
func Float(f float64) *Node { return &Node{kind: KindNumber, num: number{form: numFloat, f: f}} }

// BigInt returns an integral number node at full precision. A nil input gives
// Null.
func BigInt(i *big.Int) *Node {
	if i == nil {
		return Null()
	}
	return &Node{kind: KindNumber, num: number{form: numBig, big: new(big.Int).Set(i)}}
}

// BigFloat returns a floating number node at the precision of f. A nil input
// gives Null.
func BigFloat(f *big.Float) *Node {
	if f == nil {
		return Null()
	}
	return &Node{kind: KindNumber, num: bigFloatNumber(f)}
}

// Decimal returns a floating number node holding the exact decimal literal.
// Literals without fraction or exponent produce an integral number instead.
func Decimal(text string) (*Node, error) {
	num, ok := parseNumber(text, true)
	if !ok {
		return nil, NewError(CodeInvalidArgument, "Not a JSON number literal", ObjectOf(KV("text", text)))
	}
	return &Node{kind: KindNumber, num: num}, nil
}

// String returns a string node.
func String(s string) *Node { return &Node{kind: KindString, str: s} }

// Binary returns a binary node holding a copy of b. A nil slice gives Null.
func Binary(b []byte) *Node {
	if b == nil {
		return Null()
	}
	return &Node{kind: KindBinary, bin: bytes.Clone(b)}
}

// POJO wraps an arbitrary Go value. It is turned into a tree only when
// rendered, through DefaultEncoder.
func POJO(v any) *Node { return POJOWith(v, nil) }

// POJOWith wraps v and records enc as the encoder that resolves it.
func POJOWith(v any, enc Encoder) *Node {
	if v == nil {
		return Null()
	}
	return &Node{kind: KindPOJO, pojo: v, enc: enc}
}

// NewArray returns an array holding elems; nil elements are stored as Null.
func NewArray(elems ...*Node) *Node {
	a := &Node{kind: KindArray, elems: make([]*Node, 0, len(elems))}
	for _, e := range elems {
		a.Add(e)
	}
	return a
}

// NewObject returns an empty object.
func NewObject() *Node { return &Node{kind: KindObject, index: map[string]int{}} }

// Kind reports the variant; a nil node reports KindMissing.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindMissing
	}
	return n.kind
}

func (n *Node) IsMissing() bool { return n.Kind() == KindMissing }
func (n *Node) IsNull() bool    { return n.Kind() == KindNull }
func (n *Node) IsArray() bool   { return n.Kind() == KindArray }
func (n *Node) IsObject() bool  { return n.Kind() == KindObject }
func (n *Node) IsString() bool  { return n.Kind() == KindString }
func (n *Node) IsNumber() bool  { return n.Kind() == KindNumber }

// IsContainer reports whether n is an array or an object.
func (n *Node) IsContainer() bool { return n.IsArray() || n.IsObject() }

// IsValue reports whether n holds a scalar: null, boolean, number, string,
// binary or POJO.
func (n *Node) IsValue() bool {
	switch n.Kind() {
	case KindMissing, KindArray, KindObject:
		return false
	}
	return true
}

// BoolValue returns the boolean held by n.
func (n *Node) BoolValue() (bool, bool) {
	if n.Kind() != KindBool {
		return false, false
	}
	return n.b, true
}

// StringValue returns the string held by n.
func (n *Node) StringValue() (string, bool) {
	if n.Kind() != KindString {
		return "", false
	}
	return n.str, true
}

// Bytes returns the bytes held by a binary node. The slice is shared.
func (n *Node) Bytes() ([]byte, bool) {
	if n.Kind() != KindBinary {
		return nil, false
	}
	return n.bin, true
}

// IsIntegral reports whether n is a number created from an integer.
func (n *Node) IsIntegral() bool { return n.Kind() == KindNumber && n.num.integral() }

// Int64 returns the value of an integral number that fits in int64.
func (n *Node) Int64() (int64, bool) {
	if !n.IsIntegral() {
		return 0, false
	}
	switch n.num.form {
	case numInt:
		return n.num.i, true
	case numUint:
		if n.num.u <= 1<<63-1 {
			return int64(n.num.u), true
		}
		return 0, false
	}
	if n.num.big.IsInt64() {
		return n.num.big.Int64(), true
	}
	return 0, false
}

// BigIntValue returns an integral number as a big.Int.
func (n *Node) BigIntValue() (*big.Int, bool) {
	if !n.IsIntegral() {
		return nil, false
	}
	return new(big.Int).Set(n.num.bigInt()), true
}

// Float64 returns any number as float64, possibly losing precision.
func (n *Node) Float64() (float64, bool) {
	if n.Kind() != KindNumber {
		return 0, false
	}
	return n.num.float64(), true
}

// POJOValue returns the Go value wrapped by a POJO node.
func (n *Node) POJOValue() (any, bool) {
	if n.Kind() != KindPOJO {
		return nil, false
	}
	return n.pojo, true
}

// Text returns the textual form of a scalar: the string itself, the number
// literal, "true"/"false" or "null". Containers and Missing give "".
func (n *Node) Text() string {
	switch n.Kind() {
	case KindString:
		return n.str
	case KindBool, KindNull, KindNumber:
		b, _ := n.AppendText(nil)
		return string(b)
	}
	return ""
}

// Len returns the number of elements or fields; 0 for scalars.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindArray:
		return len(n.elems)
	case KindObject:
		return len(n.fields)
	}
	return 0
}

// Get returns the value under key, or Missing when n is not an object or has
// no such key.
func (n *Node) Get(key string) *Node {
	if n.Kind() != KindObject {
		return Missing()
	}
	if i, ok := n.index[key]; ok {
		return n.fields[i].value
	}
	return Missing()
}

// Has reports whether the object n has key, including keys holding Null.
func (n *Node) Has(key string) bool {
	if n.Kind() != KindObject {
		return false
	}
	_, ok := n.index[key]
	return ok
}

// Index returns the i-th element, or Missing when out of range or when n is
// not an array.
func (n *Node) Index(i int) *Node {
	if n.Kind() != KindArray || i < 0 || i >= len(n.elems) {
		return Missing()
	}
	return n.elems[i]
}

// Keys returns the object's keys in insertion order.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	keys := make([]string, len(n.fields))
	for i, f := range n.fields {
		keys[i] = f.key
	}
	return keys
}

// Add appends v to the array n and returns n. A nil v is stored as Null.
// Add panics with a wrong shape *Error when n is not an array.
func (n *Node) Add(v *Node) *Node {
	n.mustBe(KindArray, "an array")
	if v == nil {
		v = Null()
	}
	n.elems = append(n.elems, v)
	return n
}

// Set stores v under key and returns n. An existing key keeps its position.
// A nil v is stored as Null. Set panics when n is not an object.
func (n *Node) Set(key string, v *Node) *Node {
	n.mustBe(KindObject, "an object")
	if v == nil {
		v = Null()
	}
	if i, ok := n.index[key]; ok {
		n.fields[i].value = v
		return n
	}
	n.index[key] = len(n.fields)
	n.fields = append(n.fields, field{key: key, value: v})
	return n
}

// SetAll copies every field of the object src into n, last write wins.
func (n *Node) SetAll(src *Node) *Node {
	n.mustBe(KindObject, "an object")
	if src.Kind() != KindObject {
		panic(wrongShape("Can only copy fields from objects", src))
	}
	for _, f := range src.fields {
		n.Set(f.key, f.value)
	}
	return n
}

// Remove deletes key from the object n and returns the removed value, or
// Missing when the key was absent.
func (n *Node) Remove(key string) *Node {
	n.mustBe(KindObject, "an object")
	i, ok := n.index[key]
	if !ok {
		return Missing()
	}
	v := n.fields[i].value
	n.fields = slices.Delete(n.fields, i, i+1)
	delete(n.index, key)
	for j := i; j < len(n.fields); j++ {
		n.index[n.fields[j].key] = j
	}
	return v
}

func (n *Node) mustBe(k Kind, what string) {
	if n.Kind() != k {
		panic(wrongShape("Required "+what+", but got "+n.Kind().String(), n))
	}
}

// Clone deep-copies arrays and objects. Scalars are immutable and shared,
// POJO values are shared.
func (n *Node) Clone() *Node {
	switch n.Kind() {
	case KindArray:
		c := &Node{kind: KindArray, elems: make([]*Node, len(n.elems))}
		for i, e := range n.elems {
			c.elems[i] = e.Clone()
		}
		return c
	case KindObject:
		c := &Node{kind: KindObject, fields: make([]field, len(n.fields)), index: make(map[string]int, len(n.fields))}
		for i, f := range n.fields {
			c.fields[i] = field{key: f.key, value: f.value.Clone()}
			c.index[f.key] = i
		}
		return c
	}
	if n == nil {
		return Missing()
	}
	return n
}

// Equal reports deep structural equality. Object field order is ignored.
// Integral and floating numbers never compare equal.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n.Kind() != o.Kind() {
		return false
	}
	switch n.Kind() {
	case KindMissing, KindNull:
		return true
	case KindBool:
		return n.b == o.b
	case KindNumber:
		return n.num.equal(o.num)
	case KindString:
		return n.str == o.str
	case KindBinary:
		return bytes.Equal(n.bin, o.bin)
	case KindPOJO:
		return reflect.DeepEqual(n.pojo, o.pojo)
	case KindArray:
		if len(n.elems) != len(o.elems) {
			return false
		}
		for i := range n.elems {
			if !n.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(n.fields) != len(o.fields) {
			return false
		}
		for _, f := range n.fields {
			j, ok := o.index[f.key]
			if !ok || !f.value.Equal(o.fields[j].value) {
				return false
			}
		}
		return true
	}
	return false
}
