package gojson

import (
	"errors"
	"io"
	"testing"

	eng "github.com/reoring/jsonkit/internal/engine"
)

func drain(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("token error: %v", err)
		}
		out = append(out, tok)
	}
}

func TestTokens_KeysAndValues(t *testing.T) {
	toks := drain(t, NewBytes([]byte(`{"a":"x","b":[1.50,true,null],"c":{"d":"e"}}`)))
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindString,
		eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindBool, eng.KindNull, eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject,
		eng.KindEndObject,
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: expected %v, got %v", i, k, toks[i].Kind)
		}
	}
	if toks[5].Number != "1.50" {
		t.Fatalf("number text should be preserved, got %q", toks[5].Number)
	}
	if toks[1].String != "a" || toks[2].String != "x" {
		t.Fatalf("unexpected key/value: %+v %+v", toks[1], toks[2])
	}
}

func TestTokens_StringValueAfterNestedContainer(t *testing.T) {
	toks := drain(t, NewBytes([]byte(`{"a":[],"b":"c"}`)))
	// {, key a, [, ], key b, string c, }
	if toks[4].Kind != eng.KindKey || toks[5].Kind != eng.KindString {
		t.Fatalf("expected key then string after array, got %v %v", toks[4].Kind, toks[5].Kind)
	}
}

func TestTokens_Location(t *testing.T) {
	if got := NewBytes([]byte(`1`)).Location(); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]byte(`{"a":[1,2]}`)); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	for _, in := range []string{`{"a" 1}`, `[1,]`, `[1 2]`} {
		if err := Validate([]byte(in)); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}
