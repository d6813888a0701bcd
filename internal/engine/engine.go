package engine

import (
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin_object"
	case KindEndObject:
		return "end_object"
	case KindBeginArray:
		return "begin_array"
	case KindEndArray:
		return "end_array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData reports tokens left over after the first complete value.
var ErrTrailingData = errors.New("engine: unexpected data after top-level value")

// ErrEmptyInput reports a source that produced no tokens at all.
var ErrEmptyInput = errors.New("engine: empty input")

// Builder assembles values of type N from decoded parts. Array and Object
// receive their children in input order; Object may see duplicate keys when
// enforcement is disabled.
type Builder[N any] interface {
	Null() N
	Bool(b bool) N
	Number(text string) (N, error)
	String(s string) N
	Array(elems []N) N
	Object(keys []string, values []N) N
}

// Assemble builds exactly one value from the streaming token source and
// verifies that nothing follows it.
func Assemble[N any](src TokenSource, b Builder[N]) (N, error) {
	var zero N
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return zero, ErrEmptyInput
		}
		return zero, err
	}
	v, err := assembleValue(src, b, tok)
	if err != nil {
		return zero, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return zero, err
		}
		return zero, ErrTrailingData
	}
	return v, nil
}

func assembleValue[N any](src TokenSource, b Builder[N], tok Token) (N, error) {
	var zero N
	switch tok.Kind {
	case KindBeginObject:
		return assembleObject(src, b)
	case KindBeginArray:
		return assembleArray(src, b)
	case KindString:
		return b.String(tok.String), nil
	case KindNumber:
		return b.Number(tok.Number)
	case KindBool:
		return b.Bool(tok.Bool), nil
	case KindNull:
		return b.Null(), nil
	default:
		return zero, io.ErrUnexpectedEOF
	}
}

func assembleObject[N any](src TokenSource, b Builder[N]) (N, error) {
	var zero N
	var keys []string
	var values []N
	for {
		tok, err := src.NextToken()
		if err != nil {
			return zero, unexpected(err)
		}
		if tok.Kind == KindEndObject {
			return b.Object(keys, values), nil
		}
		if tok.Kind != KindKey {
			return zero, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return zero, unexpected(err)
		}
		v, err := assembleValue(src, b, vt)
		if err != nil {
			return zero, err
		}
		keys = append(keys, tok.String)
		values = append(values, v)
	}
}

func assembleArray[N any](src TokenSource, b Builder[N]) (N, error) {
	var zero N
	var elems []N
	for {
		tok, err := src.NextToken()
		if err != nil {
			return zero, unexpected(err)
		}
		if tok.Kind == KindEndArray {
			return b.Array(elems), nil
		}
		v, err := assembleValue(src, b, tok)
		if err != nil {
			return zero, err
		}
		elems = append(elems, v)
	}
}

// unexpected turns a plain EOF inside a container into ErrUnexpectedEOF.
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
