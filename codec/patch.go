package codec

import (
	jsonpatch "github.com/evanphx/json-patch"

	jsonkit "github.com/reoring/jsonkit"
)

// Patch applies an RFC 6902 operation list to doc and returns the patched
// copy. doc is not modified. The patched document's member order is not
// guaranteed to follow doc.
func (c *Codec) Patch(doc, ops *jsonkit.Node) (*jsonkit.Node, error) {
	d, err := c.appendText(doc, false)
	if err != nil {
		return nil, err
	}
	p, err := c.appendText(ops, false)
	if err != nil {
		return nil, err
	}
	decoded, err := jsonpatch.DecodePatch(p)
	if err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err).
			AddExtra(jsonkit.ObjectOf(jsonkit.KV("patch", ops)))
	}
	out, err := decoded.Apply(d)
	if err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err).
			AddExtra(jsonkit.ObjectOf(jsonkit.KV("json", doc), jsonkit.KV("patch", ops)))
	}
	return c.Decode(out)
}

// MergePatch applies an RFC 7386 merge patch to doc and returns the result.
func (c *Codec) MergePatch(doc, patch *jsonkit.Node) (*jsonkit.Node, error) {
	d, err := c.appendText(doc, false)
	if err != nil {
		return nil, err
	}
	p, err := c.appendText(patch, false)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, p)
	if err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err).
			AddExtra(jsonkit.ObjectOf(jsonkit.KV("json", doc), jsonkit.KV("patch", patch)))
	}
	return c.Decode(out)
}

// CreateMergePatch returns the merge patch that turns from into to. Both
// must be objects.
func (c *Codec) CreateMergePatch(from, to *jsonkit.Node) (*jsonkit.Node, error) {
	a, err := c.appendText(from, false)
	if err != nil {
		return nil, err
	}
	b, err := c.appendText(to, false)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err)
	}
	return c.Decode(out)
}
