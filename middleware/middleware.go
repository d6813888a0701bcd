// Package middleware decodes JSON request bodies into jsonkit trees at HTTP
// boundaries and answers failures with the {"status":"nok",...} envelope.
// Framework adapters live in the gin and echo submodules.
package middleware

import (
	"context"
	"net/http"

	jsonkit "github.com/reoring/jsonkit"
	"github.com/reoring/jsonkit/codec"
)

// DefaultMaxBytes is the body limit of DefaultCodec.
const DefaultMaxBytes = 1 << 20

// DefaultCodec returns the recommended codec for request bodies:
// - duplicate keys are errors
// - bodies over DefaultMaxBytes are rejected
func DefaultCodec() *codec.Codec {
	return codec.New(codec.WithDuplicateKeys(codec.Error), codec.WithMaxBytes(DefaultMaxBytes))
}

// ctxKeyNode is the context key for the decoded body.
type ctxKeyNode struct{}

// ContextWithNode attaches a decoded body to ctx.
func ContextWithNode(ctx context.Context, n *jsonkit.Node) context.Context {
	return context.WithValue(ctx, ctxKeyNode{}, n)
}

// NodeFromContext retrieves the decoded body stored by ContextWithNode.
func NodeFromContext(ctx context.Context) (*jsonkit.Node, bool) {
	n, ok := ctx.Value(ctxKeyNode{}).(*jsonkit.Node)
	return n, ok
}

// Check inspects a decoded body; a non-nil error rejects the request. The
// assure package provides ready-made checks.
type Check func(*jsonkit.Node) error

// DecodeBody reads r's body with c (DefaultCodec when nil) and runs checks
// in order.
func DecodeBody(r *http.Request, c *codec.Codec, checks ...Check) (*jsonkit.Node, error) {
	if c == nil {
		c = DefaultCodec()
	}
	if r.Body == nil {
		return nil, jsonkit.NewError(jsonkit.CodeParseError, "Request has no body", nil)
	}
	n, err := c.DecodeReader(r.Body)
	if err != nil {
		return nil, err
	}
	for _, check := range checks {
		if err := check(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// ErrorPayload renders err as an error envelope.
func ErrorPayload(err error) *jsonkit.Node {
	if je, ok := jsonkit.AsError(err); ok {
		return je.Envelope()
	}
	return jsonkit.WrapError(jsonkit.CodeInvalidArgument, err).Envelope()
}

// StatusFor maps a decoding or validation failure to an HTTP status.
func StatusFor(err error) int {
	je, ok := jsonkit.AsError(err)
	switch {
	case !ok:
		return http.StatusBadRequest
	case je.Code == jsonkit.CodeParseError && je.Data().Get("reason").Text() == "max_bytes":
		return http.StatusRequestEntityTooLarge
	case je.Code == jsonkit.CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case je.Code == jsonkit.CodeIOError:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// WriteError answers with the envelope of err and StatusFor(err).
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(err))
	_ = codec.Default().Write(w, ErrorPayload(err), false)
}

// JSON returns net/http middleware that decodes the body, runs checks and
// stores the tree in the request context for next.
func JSON(c *codec.Codec, checks ...Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n, err := DecodeBody(r, c, checks...)
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithNode(r.Context(), n)))
		})
	}
}
