package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/shared/telemetry"
)

// Recovery turns a panic into a 500 envelope and logs the stack with the
// request's identity.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id":   RequestIDFromContext(c),
				"user_id":      UserIDFromContext(c),
				"portfolio_id": c.GetString(PortfolioIDKey),
				"error":        rec,
				"stack":        string(debug.Stack()),
				"path":         c.Request.URL.Path,
				"method":       c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
