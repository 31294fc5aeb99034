package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsMaxAge          = "600"
	openCORSAllowHeader = "authorization, x-client-info, apikey, content-type"
)

// CORS sets CORS headers and handles preflight requests. Paths in openPaths
// answer any origin with permissive headers, the way the generation function does.
func CORS(allowedOrigins []string, openPaths ...string) gin.HandlerFunc {
	origins := make(map[string]struct{})
	for _, o := range allowedOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins[trimmed] = struct{}{}
		}
	}
	open := make(map[string]struct{})
	for _, p := range openPaths {
		open[p] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if _, ok := open[c.Request.URL.Path]; ok {
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Headers", openCORSAllowHeader)
			h.Set("Access-Control-Allow-Methods", "POST,OPTIONS")
			h.Set("Access-Control-Max-Age", corsMaxAge)
		} else if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := origins[origin]; ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
				h.Set("Access-Control-Expose-Headers", "X-Request-Id")
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
