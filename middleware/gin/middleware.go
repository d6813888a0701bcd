package ginmw

import (
	"github.com/gin-gonic/gin"

	jsonkit "github.com/reoring/jsonkit"
	"github.com/reoring/jsonkit/codec"
	"github.com/reoring/jsonkit/middleware"
)

// ValidateJSON decodes the request body with c (middleware.DefaultCodec when
// nil), runs checks, and stores the tree in the request context. Failures
// abort with the error envelope.
func ValidateJSON(c *codec.Codec, checks ...middleware.Check) gin.HandlerFunc {
	return func(g *gin.Context) {
		n, err := middleware.DecodeBody(g.Request, c, checks...)
		if err != nil {
			g.AbortWithStatusJSON(middleware.StatusFor(err), middleware.ErrorPayload(err))
			return
		}
		g.Request = g.Request.WithContext(middleware.ContextWithNode(g.Request.Context(), n))
		g.Next()
	}
}

// GetNode fetches the decoded body from the gin context.
func GetNode(g *gin.Context) (*jsonkit.Node, bool) {
	return middleware.NodeFromContext(g.Request.Context())
}
