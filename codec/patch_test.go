package codec_test

import (
	"errors"
	"testing"

	jsonkit "github.com/reoring/jsonkit"
	"github.com/reoring/jsonkit/codec"
)

func TestPatch(t *testing.T) {
	c := codec.New()
	doc := mustDecode(t, c, `{"name":"ada","tags":["x"],"old":1}`)
	ops := mustDecode(t, c, `[
		{"op":"replace","path":"/name","value":"grace"},
		{"op":"add","path":"/tags/-","value":"y"},
		{"op":"remove","path":"/old"}
	]`)
	got, err := c.Patch(doc, ops)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	want := mustDecode(t, c, `{"name":"grace","tags":["x","y"]}`)
	if !got.Equal(want) {
		t.Fatalf("unexpected %s", got)
	}
	if doc.Get("name").Text() != "ada" {
		t.Fatalf("input must not change")
	}

	bad := mustDecode(t, c, `[{"op":"remove","path":"/nope"}]`)
	if _, err := c.Patch(doc, bad); !errors.Is(err, jsonkit.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestMergePatch(t *testing.T) {
	c := codec.New()
	doc := mustDecode(t, c, `{"a":1,"b":{"c":2,"d":3}}`)
	got, err := c.MergePatch(doc, mustDecode(t, c, `{"a":null,"b":{"c":4},"e":5}`))
	if err != nil {
		t.Fatalf("merge patch: %v", err)
	}
	want := mustDecode(t, c, `{"b":{"c":4,"d":3},"e":5}`)
	if !got.Equal(want) {
		t.Fatalf("unexpected %s", got)
	}
}

func TestCreateMergePatch(t *testing.T) {
	c := codec.New()
	from := mustDecode(t, c, `{"a":1,"b":2}`)
	to := mustDecode(t, c, `{"a":1,"b":3,"c":4}`)
	p, err := c.CreateMergePatch(from, to)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.Equal(mustDecode(t, c, `{"b":3,"c":4}`)) {
		t.Fatalf("unexpected patch %s", p)
	}
	applied, err := c.MergePatch(from, p)
	if err != nil || !applied.Equal(to) {
		t.Fatalf("applying the patch should give the target, got %v (err=%v)", applied, err)
	}
}
