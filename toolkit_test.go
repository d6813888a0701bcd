package jsonkit_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	jsonkit "github.com/reoring/jsonkit"
)

func obj(t *testing.T, args ...any) *jsonkit.Node {
	t.Helper()
	n, err := jsonkit.ObjectNode(args...)
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	return n
}

func TestContains(t *testing.T) {
	arr := jsonkit.ArrayNode(1, "x", obj(t, "a", 1))
	for _, v := range []*jsonkit.Node{jsonkit.Int(1), jsonkit.String("x"), obj(t, "a", 1)} {
		if ok, err := jsonkit.Contains(arr, v); err != nil || !ok {
			t.Fatalf("expected %v to be found (err=%v)", v, err)
		}
	}
	if ok, _ := jsonkit.Contains(arr, jsonkit.Float(1)); ok {
		t.Fatalf("floating 1.0 must not match integral 1")
	}
	if _, err := jsonkit.Contains(jsonkit.NewObject(), jsonkit.Int(1)); !errors.Is(err, jsonkit.ErrWrongShape) {
		t.Fatalf("expected wrong shape, got %v", err)
	}
}

func TestMapAndFilter(t *testing.T) {
	arr := jsonkit.ArrayNode(1, 2, 3, 4)
	doubled, err := jsonkit.Map(arr, func(n *jsonkit.Node) *jsonkit.Node {
		v, _ := n.Int64()
		return jsonkit.Int(v * 2)
	})
	if err != nil || doubled.String() != "[2,4,6,8]" {
		t.Fatalf("unexpected map result %v (err=%v)", doubled, err)
	}
	even, err := jsonkit.Filter(arr, func(n *jsonkit.Node) bool {
		v, _ := n.Int64()
		return v%2 == 0
	})
	if err != nil || even.String() != "[2,4]" {
		t.Fatalf("unexpected filter result %v (err=%v)", even, err)
	}
	if arr.Len() != 4 {
		t.Fatalf("input must not change")
	}
}

func TestMap_WrongShapeCarriesNode(t *testing.T) {
	in := obj(t, "a", 1)
	_, err := jsonkit.Map(in, func(n *jsonkit.Node) *jsonkit.Node { return n })
	e, ok := jsonkit.AsError(err)
	if !ok || e.Code != jsonkit.CodeWrongShape {
		t.Fatalf("expected wrong shape, got %v", err)
	}
	if !e.Data().Get("json").Equal(in) {
		t.Fatalf("diagnostics should hold the input, got %v", e.Data())
	}
}

func TestFilterObjects_NonObjectElement(t *testing.T) {
	arr := jsonkit.ArrayNode(obj(t, "a", 1), true)
	_, err := jsonkit.FilterObjects(arr, func(*jsonkit.Node) bool { return true })
	if !errors.Is(err, jsonkit.ErrNonObjectElement) {
		t.Fatalf("expected non object element, got %v", err)
	}
	e, _ := jsonkit.AsError(err)
	d := e.Data()
	if d.Get("type").Text() != "boolean" {
		t.Fatalf("unexpected type %v", d.Get("type"))
	}
	if i, _ := d.Get("index").Int64(); i != 1 {
		t.Fatalf("unexpected index %v", d.Get("index"))
	}
	if !d.Get("element").Equal(jsonkit.Bool(true)) || !d.Get("json").Equal(arr) {
		t.Fatalf("unexpected diagnostics %v", d)
	}
}

func TestMapObjectsAndFindObject(t *testing.T) {
	people := jsonkit.ArrayNode(obj(t, "name", "ada"), obj(t, "name", "bob"))
	names, err := jsonkit.MapObjects(people, func(n *jsonkit.Node) *jsonkit.Node { return n.Get("name") })
	if err != nil || names.String() != `["ada","bob"]` {
		t.Fatalf("unexpected %v (err=%v)", names, err)
	}
	bob, err := jsonkit.FindObject(people, func(n *jsonkit.Node) bool { return n.Get("name").Text() == "bob" })
	if err != nil || bob != people.Index(1) {
		t.Fatalf("expected the second element, got %v (err=%v)", bob, err)
	}
	if _, err := jsonkit.MapObjects(jsonkit.ArrayNode(1), func(n *jsonkit.Node) *jsonkit.Node { return n }); !errors.Is(err, jsonkit.ErrNonObjectElement) {
		t.Fatalf("expected non object element, got %v", err)
	}
}

func TestFind_NoMatchIsMissing(t *testing.T) {
	got, err := jsonkit.Find(jsonkit.ArrayNode(1, 2), func(*jsonkit.Node) bool { return false })
	if err != nil || !got.IsMissing() {
		t.Fatalf("expected missing, got %v (err=%v)", got, err)
	}
}

func TestConcatAndReduce(t *testing.T) {
	all, err := jsonkit.Concat(jsonkit.ArrayNode(1), jsonkit.ArrayNode(), jsonkit.ArrayNode(2, 3))
	if err != nil || all.String() != "[1,2,3]" {
		t.Fatalf("unexpected %v (err=%v)", all, err)
	}
	if _, err := jsonkit.Concat(jsonkit.ArrayNode(1), jsonkit.String("x")); !errors.Is(err, jsonkit.ErrWrongShape) {
		t.Fatalf("expected wrong shape, got %v", err)
	}
	sum, err := jsonkit.Reduce(all, int64(0), func(acc int64, n *jsonkit.Node) int64 {
		v, _ := n.Int64()
		return acc + v
	})
	if err != nil || sum != 6 {
		t.Fatalf("unexpected sum %d (err=%v)", sum, err)
	}
}

func TestKeepAndPurge(t *testing.T) {
	in := obj(t, "a", 1, "b", 2, "c", 3)
	kept, err := jsonkit.Keep(in, "c", "a", "zz")
	if err != nil || kept.String() != `{"c":3,"a":1}` {
		t.Fatalf("unexpected keep %v (err=%v)", kept, err)
	}
	purged, err := jsonkit.Purge(in, "b", "zz")
	if err != nil || purged.String() != `{"a":1,"c":3}` {
		t.Fatalf("unexpected purge %v (err=%v)", purged, err)
	}
	if in.Len() != 3 {
		t.Fatalf("input must not change")
	}
	if _, err := jsonkit.Keep(jsonkit.ArrayNode(), "a"); !errors.Is(err, jsonkit.ErrWrongShape) {
		t.Fatalf("expected wrong shape, got %v", err)
	} else if e, _ := jsonkit.AsError(err); e.Message != "Can only select keys from objects" {
		t.Fatalf("unexpected message %q", e.Message)
	}
}

func TestMerge_LastWins(t *testing.T) {
	target := obj(t, "a", 1)
	out, err := jsonkit.Merge(target, obj(t, "a", 2), nil, jsonkit.Null(), jsonkit.Missing(), obj(t, "a", 3, "b", 4))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out != target {
		t.Fatalf("merge should return its target")
	}
	if v, _ := target.Get("a").Int64(); v != 3 {
		t.Fatalf("expected 3, got %d", v)
	}
	if _, err := jsonkit.Merge(target, jsonkit.ArrayNode()); !errors.Is(err, jsonkit.ErrWrongShape) {
		t.Fatalf("expected wrong shape, got %v", err)
	}
}

func TestMergeAbsent_FirstWins(t *testing.T) {
	target := obj(t, "a", 1)
	if _, err := jsonkit.MergeAbsent(target, obj(t, "a", 2, "b", 2), obj(t, "b", 3, "c", 3)); err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := target.String(); got != `{"a":1,"b":2,"c":3}` {
		t.Fatalf("unexpected %s", got)
	}
}

func TestComputeIfAbsent(t *testing.T) {
	calls := 0
	fn := func(o *jsonkit.Node, key string) *jsonkit.Node {
		calls++
		return jsonkit.String(key + "!")
	}
	target := obj(t, "present", nil)
	if _, err := jsonkit.ComputeIfAbsent(target, "present", fn); err != nil {
		t.Fatalf("err: %v", err)
	}
	if calls != 0 || !target.Get("present").IsNull() {
		t.Fatalf("a key holding null counts as present")
	}
	if _, err := jsonkit.ComputeIfAbsent(target, "new", fn); err != nil {
		t.Fatalf("err: %v", err)
	}
	if calls != 1 || target.Get("new").Text() != "new!" {
		t.Fatalf("expected computed value, got %v", target)
	}
	if _, err := jsonkit.ComputeIfAbsent(jsonkit.Int(1), "x", fn); !errors.Is(err, jsonkit.ErrWrongShape) {
		t.Fatalf("expected wrong shape, got %v", err)
	}
}

func TestPurgeNulls(t *testing.T) {
	in := obj(t, "a", nil, "b", 1, "c", 2, "d", nil)
	out, err := jsonkit.PurgeNulls(in)
	if err != nil || out.Len() != 2 || out.String() != `{"b":1,"c":2}` {
		t.Fatalf("unexpected %v (err=%v)", out, err)
	}
	if in.Len() != 4 {
		t.Fatalf("input must not change")
	}

	clean := obj(t, "a", 1)
	if same, _ := jsonkit.PurgeNulls(clean); same != clean {
		t.Fatalf("no nulls should return the input itself")
	}

	arr, _ := jsonkit.PurgeNulls(jsonkit.ArrayNode(1, nil, 2))
	if arr.String() != "[1,2]" {
		t.Fatalf("unexpected %s", arr)
	}

	_, err = jsonkit.PurgeNulls(jsonkit.String("x"))
	if !errors.Is(err, jsonkit.ErrWrongShape) || !strings.Contains(err.Error(), "object") || !strings.Contains(err.Error(), "array") {
		t.Fatalf("expected wrong shape naming object and array, got %v", err)
	}
}

func TestToListAndToMap(t *testing.T) {
	list, err := jsonkit.ToList(jsonkit.ArrayNode("a", "b"), func(n *jsonkit.Node) string { return n.Text() })
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, list); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	m, err := jsonkit.ToMap(obj(t, "z", 1, "a", 2), func(k string, v *jsonkit.Node) int64 {
		i, _ := v.Int64()
		return i
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a"}, m.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int64{"z": 1, "a": 2}, m.Map()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
	if v, ok := m.Get("a"); !ok || v != 2 || m.Len() != 2 {
		t.Fatalf("unexpected lookup %d %v", v, ok)
	}
	if _, err := jsonkit.ToMap(jsonkit.ArrayNode(), func(string, *jsonkit.Node) int { return 0 }); !errors.Is(err, jsonkit.ErrWrongShape) {
		t.Fatalf("expected wrong shape, got %v", err)
	}
}

func TestIterators(t *testing.T) {
	var keys []string
	for k := range obj(t, "b", 1, "a", 2).Fields() {
		keys = append(keys, k)
	}
	if diff := cmp.Diff([]string{"b", "a"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	count := 0
	for range jsonkit.ArrayNode(1, 2, 3).Elements() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("iteration should stop early, got %d", count)
	}
	for range jsonkit.String("x").Elements() {
		t.Fatalf("scalars have no elements")
	}
}
