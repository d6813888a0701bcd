package jsonkit

import (
	"strconv"
	"strings"
)

// Pointer is a parsed RFC 6901 JSON Pointer. The zero value points at the
// root.
type Pointer struct {
	tokens []string
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")
var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// ParsePointer parses text such as "/items/2/price". The empty string is the
// root; any other pointer must start with '/'.
func ParsePointer(s string) (Pointer, error) {
	if s == "" {
		return Pointer{}, nil
	}
	if s[0] != '/' {
		return Pointer{}, NewError(CodeInvalidArgument, "JSON pointer must start with '/'", ObjectOf(KV("pointer", s)))
	}
	parts := strings.Split(s[1:], "/")
	for i, p := range parts {
		if badEscape(p) {
			return Pointer{}, NewError(CodeInvalidArgument, "JSON pointer has an invalid '~' escape", ObjectOf(KV("pointer", s), KV("token", p)))
		}
		parts[i] = pointerUnescaper.Replace(p)
	}
	return Pointer{tokens: parts}, nil
}

func badEscape(tok string) bool {
	for i := 0; i < len(tok); i++ {
		if tok[i] != '~' {
			continue
		}
		if i+1 >= len(tok) || (tok[i+1] != '0' && tok[i+1] != '1') {
			return true
		}
	}
	return false
}

// Field returns a pointer one object member deeper.
func (p Pointer) Field(name string) Pointer {
	return Pointer{tokens: append(append([]string{}, p.tokens...), name)}
}

// Index returns a pointer one array element deeper.
func (p Pointer) Index(i int) Pointer {
	return Pointer{tokens: append(append([]string{}, p.tokens...), strconv.Itoa(i))}
}

// Tokens returns the unescaped reference tokens.
func (p Pointer) Tokens() []string { return append([]string{}, p.tokens...) }

func (p Pointer) String() string {
	var b strings.Builder
	for _, t := range p.tokens {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(t))
	}
	return b.String()
}

// At navigates n along p. Any absent step yields Missing.
func (n *Node) At(p Pointer) *Node {
	cur := n
	if cur == nil {
		return Missing()
	}
	for _, t := range p.tokens {
		switch cur.Kind() {
		case KindObject:
			cur = cur.Get(t)
		case KindArray:
			i, ok := arrayIndex(t)
			if !ok {
				return Missing()
			}
			cur = cur.Index(i)
		default:
			return Missing()
		}
	}
	return cur
}

// AtString parses s and navigates to it.
func (n *Node) AtString(s string) (*Node, error) {
	p, err := ParsePointer(s)
	if err != nil {
		return nil, err
	}
	return n.At(p), nil
}

// arrayIndex accepts "0" or a decimal without leading zeros.
func arrayIndex(t string) (int, bool) {
	if t == "" || (len(t) > 1 && t[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(t); i++ {
		if !isDigit(t[i]) {
			return 0, false
		}
	}
	i, err := strconv.Atoi(t)
	return i, err == nil
}
