package compare_test

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"

	jsonkit "github.com/reoring/jsonkit"
	"github.com/reoring/jsonkit/assure"
	"github.com/reoring/jsonkit/codec"

	sonic "github.com/bytedance/sonic"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"
)

// shared fixtures

func smallUserJSON() []byte { return []byte(`{"id":"u_1","name":"alice"}`) }

func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		buf.WriteString("\"id\":\"obj_")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString("\",\"name\":\"n")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString("\",\"age\":")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte(',')
		if i%2 == 0 {
			buf.WriteString("\"active\":true,")
		} else {
			buf.WriteString("\"active\":false,")
		}
		buf.WriteString("\"meta\":{\"score\":")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte('}')
		for k := 0; k < extraFields; k++ {
			buf.WriteByte(',')
			buf.WriteByte('"')
			buf.WriteString("k")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\":\"v")
			buf.WriteString(strconv.Itoa(i))
			buf.WriteString("_")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\"")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// ---- DecodeOnly: bytes -> memory structure (no checks) ----

func Benchmark_DecodeOnly_stdlib_Small(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_gojson_Small(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := gojson.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_jsoniter_Small(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	var ji = jsoniter.ConfigCompatibleWithStandardLibrary
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := ji.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_sonic_Small(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := sonic.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_fastjson_Small(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var p fastjson.Parser
		if _, err := p.ParseBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_jsonkit_Small(b *testing.B) {
	// Ordered tree with duplicate detection disabled, the closest match to a map.
	c := codec.New(codec.WithDuplicateKeys(codec.Ignore))
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- DecodeAndCheck: minimal check (id:string required) ----

func Benchmark_DecodeAndCheck_stdlib_Small(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
		id, ok := v["id"].(string)
		if !ok || id == "" {
			b.Fatal("id missing or not string")
		}
	}
}

func Benchmark_DecodeAndCheck_jsonkit_Small(b *testing.B) {
	c := codec.New(codec.WithDuplicateKeys(codec.Error))
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n, err := c.Decode(data)
		if err != nil {
			b.Fatal(err)
		}
		if err := assure.NonEmptyStrings(n, "id"); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Huge array ----

const (
	cmpHugeN = 10000
	cmpHugeK = 8
)

func Benchmark_DecodeOnly_stdlib_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_gojson_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := gojson.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_jsoniter_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	var ji = jsoniter.ConfigCompatibleWithStandardLibrary
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := ji.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_sonic_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := sonic.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_fastjson_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var p fastjson.Parser
		if _, err := p.ParseBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_jsonkit_HugeArray(b *testing.B) {
	c := codec.New(codec.WithDuplicateKeys(codec.Ignore))
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_jsonkit_UnmarshalJSON_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var n jsonkit.Node
		if err := n.UnmarshalJSON(data); err != nil {
			b.Fatal(err)
		}
	}
}

// Deeply nested JSON generator and cases
func generateDeepNested(depth int) []byte {
	// {"a":{"a":{...{"z":1}...}}}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < depth; i++ {
		buf.WriteString("\"a\":{")
	}
	buf.WriteString("\"z\":1")
	for i := 0; i < depth; i++ {
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func Benchmark_DecodeOnly_stdlib_DeepNested(b *testing.B) {
	data := generateDeepNested(64)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_jsonkit_DeepNested(b *testing.B) {
	c := codec.New(codec.WithMaxDepth(128))
	data := generateDeepNested(64)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
