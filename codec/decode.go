package codec

import (
	"errors"
	"io"
	"reflect"

	j "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"

	jsonkit "github.com/reoring/jsonkit"
	eng "github.com/reoring/jsonkit/internal/engine"
	"github.com/reoring/jsonkit/source/gojson"
)

// Decode parses JSON text into a tree. Object order and number form are
// kept. Malformed input, input after the first value and limit violations
// fail with a parse_error *jsonkit.Error carrying "text", "offset" and, when
// known, "reason" and "path".
func (c *Codec) Decode(text []byte) (*jsonkit.Node, error) {
	if c.opts.maxBytes > 0 && int64(len(text)) > c.opts.maxBytes {
		return nil, jsonkit.NewError(jsonkit.CodeParseError, "Input exceeds the size limit", jsonkit.ObjectOf(
			jsonkit.KV("text", ""),
			jsonkit.KV("offset", c.opts.maxBytes),
			jsonkit.KV("reason", "max_bytes"),
			jsonkit.KV("limit", c.opts.maxBytes),
		))
	}
	src := eng.WrapWithEnforcement(gojson.NewBytes(text), eng.EnforceOptions{
		OnDuplicate: c.opts.duplicates.engine(),
		MaxDepth:    c.opts.maxDepth,
		IssueSink: func(si eng.SimpleIssue) {
			c.opts.logger.Warn("duplicate key in JSON input", "path", si.Path, "code", si.Code)
		},
	})
	n, err := eng.Assemble[*jsonkit.Node](src, jsonkit.NodeBuilder{Decimals: c.opts.decimals})
	if err == nil {
		err = gojson.Validate(text)
	}
	if err != nil {
		return nil, parseError(text, err)
	}
	return n, nil
}

// DecodeString is Decode for a string.
func (c *Codec) DecodeString(text string) (*jsonkit.Node, error) { return c.Decode([]byte(text)) }

// DecodeReader reads r fully and decodes it. With a size limit set, reading
// stops one byte past the limit.
func (c *Codec) DecodeReader(r io.Reader) (*jsonkit.Node, error) {
	if c.opts.maxBytes > 0 {
		r = io.LimitReader(r, c.opts.maxBytes+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeIOError, err)
	}
	return c.Decode(b)
}

// DecodeJSONC accepts JSON with comments and trailing commas.
func (c *Codec) DecodeJSONC(text []byte) (*jsonkit.Node, error) {
	return c.Decode(jsonc.ToJSON(text))
}

func parseError(text []byte, err error) *jsonkit.Error {
	e := jsonkit.WrapError(jsonkit.CodeParseError, err)
	data := jsonkit.ObjectOf(jsonkit.KV("text", string(text)), jsonkit.KV("offset", -1))

	var syn *j.SyntaxError
	var issue eng.IssueError
	switch {
	case errors.As(err, &syn):
		data.Set("offset", jsonkit.Int(syn.Offset))
		data.Set("reason", jsonkit.String("syntax"))
	case errors.As(err, &issue):
		data.Set("reason", jsonkit.String(issue.Code))
		data.Set("path", jsonkit.String(issue.Path))
	case errors.Is(err, eng.ErrTrailingData):
		data.Set("reason", jsonkit.String("trailing_data"))
	case errors.Is(err, eng.ErrEmptyInput):
		data.Set("offset", jsonkit.Int(0))
		data.Set("reason", jsonkit.String("empty_input"))
	case errors.Is(err, io.ErrUnexpectedEOF):
		data.Set("offset", jsonkit.Int(int64(len(text))))
		data.Set("reason", jsonkit.String("unexpected_end"))
	}
	return e.AddExtra(data)
}

// DecodeInto converts a tree into T: a registered decoder for T wins,
// otherwise the tree is rendered and unmarshalled with go-json.
func DecodeInto[T any](c *Codec, n *jsonkit.Node) (T, error) {
	var zero T
	if fn, ok := c.decoderFor(reflect.TypeFor[T]()); ok {
		v, err := fn(n)
		if err != nil {
			return zero, err
		}
		return v.(T), nil
	}
	if out, ok := any(n).(T); ok {
		return out, nil
	}
	b, err := n.AppendTextWith(nil, c)
	if err != nil {
		return zero, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
	}
	var out T
	if err := j.Unmarshal(b, &out); err != nil {
		return zero, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
	}
	return out, nil
}

// Decode parses text with the default Codec.
func Decode(text []byte) (*jsonkit.Node, error) { return Default().Decode(text) }

// Encode converts v with the default Codec.
func Encode(v any) (*jsonkit.Node, error) { return Default().Encode(v) }
