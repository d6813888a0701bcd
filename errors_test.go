package jsonkit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	jsonkit "github.com/reoring/jsonkit"
	"github.com/reoring/jsonkit/i18n"
)

func TestNewError_Payload(t *testing.T) {
	e := jsonkit.NewError(jsonkit.CodeValidationFailed, "bad", jsonkit.ObjectOf(jsonkit.KV("field", "x")))
	if e.Data().Get("field").Text() != "x" {
		t.Fatalf("object payload should be merged, got %v", e.Data())
	}
	scalar := jsonkit.NewError(jsonkit.CodeValidationFailed, "bad", jsonkit.Int(3))
	if v, _ := scalar.Data().Get("data").Int64(); v != 3 {
		t.Fatalf("scalar payload should be kept under data, got %v", scalar.Data())
	}
	if jsonkit.NewError(jsonkit.CodeValidationFailed, "bad", nil).Data().Len() != 0 {
		t.Fatalf("nil payload should give empty diagnostics")
	}
}

func TestEnvelope(t *testing.T) {
	e := jsonkit.NewError(jsonkit.CodeValidationFailed, "bad input", jsonkit.ObjectOf(
		jsonkit.KV("field", "name"),
		jsonkit.KV("status", "overridden?"),
	))
	b, err := e.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(b); got != `{"status":"nok","error":"bad input","field":"name"}` {
		t.Fatalf("unexpected envelope %s", got)
	}
}

func TestEnvelope_MessagelessKeepsEmptyError(t *testing.T) {
	e := jsonkit.NewError(jsonkit.CodeValidationFailed, "", jsonkit.ObjectOf(jsonkit.KV("error", "from data")))
	env := e.Envelope()
	if diff := cmp.Diff([]string{"status", "error"}, env.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if s, _ := env.Get("error").StringValue(); s != "" {
		t.Fatalf("diagnostics must not replace the error entry, got %q", s)
	}
}

func TestCopyError_Independent(t *testing.T) {
	orig := jsonkit.NewError(jsonkit.CodeWrongShape, "m", jsonkit.ObjectOf(jsonkit.KV("a", 1)))
	cp := jsonkit.CopyError(orig)
	cp.AddExtra(jsonkit.ObjectOf(jsonkit.KV("b", 2)))
	if orig.Data().Has("b") {
		t.Fatalf("copy must not alias the original payload")
	}
	if cp.Message != "m" || !cp.Data().Has("a") || !cp.Data().Has("b") {
		t.Fatalf("unexpected copy %v %v", cp, cp.Data())
	}
	if jsonkit.CopyError(nil) != nil {
		t.Fatalf("copy of nil should be nil")
	}
}

func TestAddExtra_Additive(t *testing.T) {
	e := jsonkit.NewError(jsonkit.CodeWrongShape, "m", jsonkit.ObjectOf(jsonkit.KV("a", 1), jsonkit.KV("b", 1)))
	e.AddExtra(jsonkit.ObjectOf(jsonkit.KV("b", 2), jsonkit.KV("c", 3)))
	if got := e.Data().String(); got != `{"a":1,"b":2,"c":3}` {
		t.Fatalf("unexpected %s", got)
	}
}

func TestWrapError(t *testing.T) {
	inner := jsonkit.NewError(jsonkit.CodeWrongShape, "inner", jsonkit.ObjectOf(jsonkit.KV("k", "v")))
	w := jsonkit.WrapError(jsonkit.CodeValidationFailed, inner)
	if w.Message != "inner" || w.Data().Get("k").Text() != "v" {
		t.Fatalf("unexpected wrap %v %v", w, w.Data())
	}
	if !errors.Is(w, jsonkit.ErrValidationFailed) || !errors.Is(w, jsonkit.ErrWrongShape) {
		t.Fatalf("wrapped error should match both codes")
	}
	plain := jsonkit.WrapError(jsonkit.CodeIOError, errors.New("disk"))
	if plain.Error() != "disk" || plain.Data().Len() != 0 {
		t.Fatalf("unexpected %v", plain)
	}
}

func TestAsError_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("ctx: %w", jsonkit.NewError(jsonkit.CodeParseError, "p", nil))
	e, ok := jsonkit.AsError(err)
	if !ok || e.Code != jsonkit.CodeParseError {
		t.Fatalf("expected parse error, got %v", err)
	}
	if !errors.Is(err, jsonkit.ErrParse) || errors.Is(err, jsonkit.ErrIO) {
		t.Fatalf("sentinel matching by code failed")
	}
	if _, ok := jsonkit.AsError(errors.New("x")); ok {
		t.Fatalf("plain errors are not *Error")
	}
}

func TestError_MessageFallback(t *testing.T) {
	if got := jsonkit.NewError(jsonkit.CodeWrongShape, "", nil).Error(); got != "wrong shape" {
		t.Fatalf("expected label, got %q", got)
	}
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	if got := jsonkit.NewError(jsonkit.CodeWrongShape, "", nil).Error(); got == "wrong shape" {
		t.Fatalf("expected localized label, got %q", got)
	}
}
