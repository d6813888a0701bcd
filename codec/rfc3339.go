package codec

import (
	"time"

	jsonkit "github.com/reoring/jsonkit"
)

// registerTimeHooks installs the RFC 3339 conversions for time.Time. They can
// be replaced with RegisterEncoder / RegisterDecoder.
func registerTimeHooks(c *Codec) {
	RegisterEncoder(c, func(t time.Time) (*jsonkit.Node, error) {
		return jsonkit.String(formatRFC3339Canonical(t)), nil
	})
	RegisterDecoder(c, func(n *jsonkit.Node) (time.Time, error) {
		s, ok := n.StringValue()
		if !ok {
			return time.Time{}, jsonkit.NewError(jsonkit.CodeWrongShape, "Required a string holding an RFC 3339 time",
				jsonkit.ObjectOf(jsonkit.KV("json", n)))
		}
		t, err := parseRFC3339(s)
		if err != nil {
			return time.Time{}, jsonkit.WrapError(jsonkit.CodeInvalidArgument, err).
				AddExtra(jsonkit.ObjectOf(jsonkit.KV("value", s)))
		}
		return t, nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
