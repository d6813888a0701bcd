package codec

import (
	"bytes"
	"encoding/base64"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	jsonkit "github.com/reoring/jsonkit"
)

// DecodeYAML reads the first YAML document into a tree. Mapping order is
// kept, aliases and merge keys are resolved, and tags map onto node kinds
// (!!timestamp values go through the time.Time encoder).
func (c *Codec) DecodeYAML(text []byte) (*jsonkit.Node, error) {
	if c.opts.maxBytes > 0 && int64(len(text)) > c.opts.maxBytes {
		return nil, jsonkit.NewError(jsonkit.CodeParseError, "Input exceeds the size limit",
			jsonkit.ObjectOf(jsonkit.KV("reason", "max_bytes"), jsonkit.KV("limit", c.opts.maxBytes)))
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeParseError, err).
			AddExtra(jsonkit.ObjectOf(jsonkit.KV("text", string(text)), jsonkit.KV("reason", "yaml")))
	}
	if doc.Kind == 0 {
		return nil, jsonkit.NewError(jsonkit.CodeParseError, "Empty YAML input",
			jsonkit.ObjectOf(jsonkit.KV("text", string(text)), jsonkit.KV("reason", "empty_input")))
	}
	return c.fromYAML(&doc, "", 0)
}

func (c *Codec) yamlError(msg, path string, y *yaml.Node) *jsonkit.Error {
	return jsonkit.NewError(jsonkit.CodeParseError, msg, jsonkit.ObjectOf(
		jsonkit.KV("path", path),
		jsonkit.KV("line", y.Line),
		jsonkit.KV("column", y.Column),
	))
}

func (c *Codec) fromYAML(y *yaml.Node, path string, depth int) (*jsonkit.Node, error) {
	if (y.Kind == yaml.SequenceNode || y.Kind == yaml.MappingNode) && c.opts.maxDepth > 0 && depth >= c.opts.maxDepth {
		return nil, c.yamlError("max depth exceeded", path, y)
	}
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return jsonkit.Null(), nil
		}
		return c.fromYAML(y.Content[0], path, depth)
	case yaml.AliasNode:
		return c.fromYAML(y.Alias, path, depth)
	case yaml.SequenceNode:
		out := jsonkit.NewArray()
		for i, item := range y.Content {
			n, err := c.fromYAML(item, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return nil, err
			}
			out.Add(n)
		}
		return out, nil
	case yaml.MappingNode:
		out := jsonkit.NewObject()
		if err := c.fillMapping(out, y, path, depth); err != nil {
			return nil, err
		}
		return out, nil
	case yaml.ScalarNode:
		return c.yamlScalar(y, path)
	}
	return nil, c.yamlError("unsupported YAML node", path, y)
}

func (c *Codec) fillMapping(out *jsonkit.Node, y *yaml.Node, path string, depth int) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.Kind == yaml.AliasNode {
			k = k.Alias
		}
		if k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		key := k.Value
		child := path + "/" + escapeToken(key)
		if out.Has(key) {
			switch c.opts.duplicates {
			case Error:
				return c.yamlError("duplicate key '"+key+"'", child, k)
			case Warn:
				c.opts.logger.Warn("duplicate key in YAML input", "path", child, "line", k.Line)
			}
		}
		n, err := c.fromYAML(v, child, depth+1)
		if err != nil {
			return err
		}
		out.Set(key, n)
	}
	// Explicit keys win over merged ones wherever the merge key appears.
	for _, v := range merges {
		if err := c.mergeYAML(out, v, path, depth); err != nil {
			return err
		}
	}
	return nil
}

// mergeYAML applies a "<<" merge key: fields of the referenced mappings are
// appended unless the mapping already has them. Earlier sources win.
func (c *Codec) mergeYAML(out *jsonkit.Node, v *yaml.Node, path string, depth int) error {
	if v.Kind == yaml.AliasNode {
		v = v.Alias
	}
	sources := []*yaml.Node{v}
	if v.Kind == yaml.SequenceNode {
		sources = v.Content
	}
	for _, s := range sources {
		if s.Kind == yaml.AliasNode {
			s = s.Alias
		}
		if s.Kind != yaml.MappingNode {
			return c.yamlError("merge key requires a mapping", path, s)
		}
		m := jsonkit.NewObject()
		if err := c.fillMapping(m, s, path, depth); err != nil {
			return err
		}
		if _, err := jsonkit.MergeAbsent(out, m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) yamlScalar(y *yaml.Node, path string) (*jsonkit.Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return jsonkit.Null(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, c.yamlError(err.Error(), path, y)
		}
		return jsonkit.Bool(b), nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err == nil {
			return jsonkit.Int(i), nil
		}
		var u uint64
		if err := y.Decode(&u); err == nil {
			return jsonkit.Uint(u), nil
		}
		b, ok := new(big.Int).SetString(strings.ReplaceAll(y.Value, "_", ""), 0)
		if !ok {
			return nil, c.yamlError("invalid integer '"+y.Value+"'", path, y)
		}
		return jsonkit.BigInt(b), nil
	case "!!float":
		// Integers too large for 64 bits resolve as floats.
		if b, ok := new(big.Int).SetString(y.Value, 10); ok {
			return jsonkit.BigInt(b), nil
		}
		if c.opts.decimals {
			if d, err := jsonkit.Decimal(y.Value); err == nil {
				return d, nil
			}
		}
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, c.yamlError(err.Error(), path, y)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, c.yamlError("NaN and infinite numbers have no JSON form", path, y)
		}
		// Digits a float64 cannot carry stay as decimal text.
		if d, err := jsonkit.Decimal(y.Value); err == nil && !d.Equal(jsonkit.Float(f)) {
			return d, nil
		}
		return jsonkit.Float(f), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(y.Value), ""))
		if err != nil {
			return nil, c.yamlError(err.Error(), path, y)
		}
		return jsonkit.Binary(b), nil
	case "!!timestamp":
		var t time.Time
		if err := y.Decode(&t); err != nil {
			return jsonkit.String(y.Value), nil
		}
		return c.Encode(t)
	}
	return jsonkit.String(y.Value), nil
}

var tokenEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapeToken(s string) string { return tokenEscaper.Replace(s) }

// ToYAML renders n as a YAML document keeping object order.
func (c *Codec) ToYAML(n *jsonkit.Node) (string, error) {
	root, err := c.toYAML(n)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
	}
	if err := enc.Close(); err != nil {
		return "", jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
	}
	return buf.String(), nil
}

func (c *Codec) toYAML(n *jsonkit.Node) (*yaml.Node, error) {
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}
	switch n.Kind() {
	case jsonkit.KindMissing, jsonkit.KindNull:
		return scalar("!!null", "null"), nil
	case jsonkit.KindBool:
		return scalar("!!bool", n.Text()), nil
	case jsonkit.KindNumber:
		b, err := n.AppendText(nil)
		if err != nil {
			return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
		}
		if n.IsIntegral() {
			return scalar("!!int", string(b)), nil
		}
		return scalar("!!float", string(b)), nil
	case jsonkit.KindString:
		s, _ := n.StringValue()
		return scalar("!!str", s), nil
	case jsonkit.KindBinary:
		b, _ := n.Bytes()
		return scalar("!!binary", base64.StdEncoding.EncodeToString(b)), nil
	case jsonkit.KindPOJO:
		r, err := n.Resolve(c)
		if err != nil {
			return nil, err
		}
		return c.toYAML(r)
	case jsonkit.KindArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for e := range n.Elements() {
			y, err := c.toYAML(e)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, y)
		}
		return seq, nil
	}
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range n.Fields() {
		if v.IsMissing() {
			continue
		}
		y, err := c.toYAML(v)
		if err != nil {
			return nil, err
		}
		m.Content = append(m.Content, scalar("!!str", k), y)
	}
	return m, nil
}

// DecodeYAML reads YAML with the default Codec.
func DecodeYAML(text []byte) (*jsonkit.Node, error) { return Default().DecodeYAML(text) }
