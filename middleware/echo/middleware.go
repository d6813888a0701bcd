package echomw

import (
	"github.com/labstack/echo/v4"

	jsonkit "github.com/reoring/jsonkit"
	"github.com/reoring/jsonkit/codec"
	"github.com/reoring/jsonkit/middleware"
)

// ValidateJSON decodes the request body with c (middleware.DefaultCodec when
// nil), runs checks, and stores the tree in the request context, or answers
// with the error envelope.
func ValidateJSON(c *codec.Codec, checks ...middleware.Check) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(e echo.Context) error {
			n, err := middleware.DecodeBody(e.Request(), c, checks...)
			if err != nil {
				return e.JSON(middleware.StatusFor(err), middleware.ErrorPayload(err))
			}
			e.SetRequest(e.Request().WithContext(middleware.ContextWithNode(e.Request().Context(), n)))
			return next(e)
		}
	}
}

// GetNode fetches the decoded body from the echo context.
func GetNode(e echo.Context) (*jsonkit.Node, bool) {
	return middleware.NodeFromContext(e.Request().Context())
}
