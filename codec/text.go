package codec

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"

	jsonkit "github.com/reoring/jsonkit"
)

// ToText renders n as JSON. POJOs without their own encoder are resolved
// through c. Pretty output uses the configured indent.
func (c *Codec) ToText(n *jsonkit.Node, pretty bool) (string, error) {
	b, err := c.appendText(n, pretty)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Codec) appendText(n *jsonkit.Node, pretty bool) ([]byte, error) {
	b, err := n.AppendTextWith(nil, c)
	if err != nil {
		if _, ok := jsonkit.AsError(err); ok {
			return nil, err
		}
		return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
	}
	if !pretty {
		return b, nil
	}
	var out bytes.Buffer
	if err := j.Indent(&out, b, "", c.opts.indent); err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
	}
	return out.Bytes(), nil
}

// Write renders n into w. Failures of w are reported as io_error.
func (c *Codec) Write(w io.Writer, n *jsonkit.Node, pretty bool) error {
	b, err := c.appendText(n, pretty)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return jsonkit.WrapError(jsonkit.CodeIOError, err)
	}
	return nil
}

// ToText renders n with the default Codec.
func ToText(n *jsonkit.Node, pretty bool) (string, error) { return Default().ToText(n, pretty) }
