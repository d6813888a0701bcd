package jsonkit

import (
	"encoding/base64"
	"errors"
	"fmt"

	j "github.com/goccy/go-json"

	"github.com/reoring/jsonkit/internal/engine"
	"github.com/reoring/jsonkit/source/gojson"
)

// Encoder turns a Go value into a tree. It is used to resolve POJO nodes when
// they are rendered and by collectors that convert through a codec.
type Encoder interface {
	Encode(v any) (*Node, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(v any) (*Node, error)

func (f EncoderFunc) Encode(v any) (*Node, error) { return f(v) }

// DefaultEncoder resolves POJOs that carry no encoder of their own: the value
// is marshalled with go-json and read back as a tree.
var DefaultEncoder Encoder = EncoderFunc(marshalValue)

func marshalValue(v any) (*Node, error) {
	b, err := j.Marshal(v)
	if err != nil {
		return nil, WrapError(CodeInvalidArgument, err)
	}
	n := new(Node)
	if err := n.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return n, nil
}

// Resolve turns a POJO into a tree using the node's encoder, else fallback,
// else DefaultEncoder. Other variants are returned unchanged.
func (n *Node) Resolve(fallback Encoder) (*Node, error) {
	if n.Kind() != KindPOJO {
		return n, nil
	}
	enc := n.enc
	if enc == nil {
		enc = fallback
	}
	if enc == nil {
		enc = DefaultEncoder
	}
	out, err := enc.Encode(n.pojo)
	if err != nil {
		return nil, err
	}
	if out.Kind() == KindPOJO {
		return nil, NewError(CodeInvalidArgument, "Encoder returned an unresolved value", ObjectOf(KV("type", fmt.Sprintf("%T", n.pojo))))
	}
	return out, nil
}

// AppendText appends the compact JSON text of n. Object members holding
// Missing are skipped; Missing elsewhere renders as null. Binary renders as
// a base64 string and decodes back as a String, not as Binary.
func (n *Node) AppendText(dst []byte) ([]byte, error) {
	return appendNode(dst, n, nil)
}

// AppendTextWith is AppendText where POJOs without their own encoder are
// resolved through enc.
func (n *Node) AppendTextWith(dst []byte, enc Encoder) ([]byte, error) {
	return appendNode(dst, n, enc)
}

func appendNode(dst []byte, n *Node, enc Encoder) ([]byte, error) {
	switch n.Kind() {
	case KindMissing, KindNull:
		return append(dst, "null"...), nil
	case KindBool:
		if n.b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case KindNumber:
		return n.num.appendText(dst)
	case KindString:
		return appendString(dst, n.str)
	case KindBinary:
		dst = append(dst, '"')
		dst = base64.StdEncoding.AppendEncode(dst, n.bin)
		return append(dst, '"'), nil
	case KindPOJO:
		r, err := n.Resolve(enc)
		if err != nil {
			return dst, err
		}
		return appendNode(dst, r, enc)
	case KindArray:
		dst = append(dst, '[')
		for i, e := range n.elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = appendNode(dst, e, enc); err != nil {
				return dst, err
			}
		}
		return append(dst, ']'), nil
	case KindObject:
		dst = append(dst, '{')
		first := true
		for _, f := range n.fields {
			if f.value.IsMissing() {
				continue
			}
			if !first {
				dst = append(dst, ',')
			}
			first = false
			var err error
			if dst, err = appendString(dst, f.key); err != nil {
				return dst, err
			}
			dst = append(dst, ':')
			if dst, err = appendNode(dst, f.value, enc); err != nil {
				return dst, err
			}
		}
		return append(dst, '}'), nil
	}
	return dst, errors.New("jsonkit: unknown node kind")
}

func appendString(dst []byte, s string) ([]byte, error) {
	b, err := j.Marshal(s)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}

// MarshalJSON renders n as compact JSON text.
func (n *Node) MarshalJSON() ([]byte, error) {
	b, err := n.AppendText(nil)
	if err != nil {
		return nil, WrapError(CodeInvalidArgument, err)
	}
	return b, nil
}

// UnmarshalJSON replaces n with the tree read from data.
func (n *Node) UnmarshalJSON(data []byte) error {
	out, err := engine.Assemble[*Node](gojson.NewBytes(data), NodeBuilder{})
	if err == nil {
		err = gojson.Validate(data)
	}
	if err != nil {
		return WrapError(CodeParseError, err)
	}
	*n = *out
	return nil
}

// String returns the compact JSON text, or a bracketed error description when
// n cannot be rendered.
func (n *Node) String() string {
	b, err := n.AppendText(nil)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(b)
}

// NodeBuilder assembles decoded JSON into Nodes. With Decimals set, floating
// literals keep their exact decimal text.
type NodeBuilder struct {
	Decimals bool
}

func (NodeBuilder) Null() *Node           { return Null() }
func (NodeBuilder) Bool(b bool) *Node     { return Bool(b) }
func (NodeBuilder) String(s string) *Node { return String(s) }

func (b NodeBuilder) Number(text string) (*Node, error) {
	num, ok := parseNumber(text, b.Decimals)
	if !ok {
		return nil, NewError(CodeParseError, "Invalid number literal", ObjectOf(KV("text", text)))
	}
	return &Node{kind: KindNumber, num: num}, nil
}

func (NodeBuilder) Array(elems []*Node) *Node {
	if elems == nil {
		elems = []*Node{}
	}
	return &Node{kind: KindArray, elems: elems}
}

func (NodeBuilder) Object(keys []string, values []*Node) *Node {
	o := NewObject()
	for i, k := range keys {
		o.Set(k, values[i])
	}
	return o
}
