package middleware

import (
	"io"
	"net/http"
	"runtime/debug"

	"bookcatalog/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a handler panic into a 500 envelope. gin's own writer is silenced so
// the panic is logged once, through zerolog, with the stack attached.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", c.GetString(ContextKeyRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Bytes("stack", debug.Stack()).
			Msg("panic recovered")

		if c.Writer.Written() {
			c.Abort()
			return
		}
		response.ErrorResponse(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
		c.Abort()
	})
}
