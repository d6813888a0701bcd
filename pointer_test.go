package jsonkit_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	jsonkit "github.com/reoring/jsonkit"
)

func mustPointer(t *testing.T, s string) jsonkit.Pointer {
	t.Helper()
	p, err := jsonkit.ParsePointer(s)
	if err != nil {
		t.Fatalf("pointer %q: %v", s, err)
	}
	return p
}

func TestParsePointer(t *testing.T) {
	p := mustPointer(t, "/a~1b/m~0n/0")
	if diff := cmp.Diff([]string{"a/b", "m~n", "0"}, p.Tokens()); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if p.String() != "/a~1b/m~0n/0" {
		t.Fatalf("round trip failed: %s", p)
	}
	if root := mustPointer(t, ""); root.String() != "" || len(root.Tokens()) != 0 {
		t.Fatalf("empty pointer is the root")
	}
	for _, bad := range []string{"a", "/x~2", "/x~"} {
		if _, err := jsonkit.ParsePointer(bad); !errors.Is(err, jsonkit.ErrInvalidArgument) {
			t.Fatalf("%q: expected invalid argument, got %v", bad, err)
		}
	}
}

func TestPointer_Builders(t *testing.T) {
	var root jsonkit.Pointer
	p := root.Field("items").Index(2).Field("a/b")
	if p.String() != "/items/2/a~1b" {
		t.Fatalf("unexpected %s", p)
	}
	if root.String() != "" {
		t.Fatalf("builders must not mutate the receiver")
	}
}

func TestAt(t *testing.T) {
	doc := jsonkit.MustObjectNode(
		"items", jsonkit.ArrayNode(jsonkit.MustObjectNode("price", 10), jsonkit.MustObjectNode("price", 20)),
		"", "empty-key",
	)
	cases := []struct {
		ptr  string
		want *jsonkit.Node
	}{
		{"", doc},
		{"/items/1/price", jsonkit.Int(20)},
		{"/", jsonkit.String("empty-key")},
		{"/items/2/price", jsonkit.Missing()},
		{"/items/01", jsonkit.Missing()},
		{"/items/-", jsonkit.Missing()},
		{"/items/0/price/deeper", jsonkit.Missing()},
		{"/nope", jsonkit.Missing()},
	}
	for _, tc := range cases {
		got, err := doc.AtString(tc.ptr)
		if err != nil {
			t.Fatalf("%q: %v", tc.ptr, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.ptr, got, tc.want)
		}
	}
}
