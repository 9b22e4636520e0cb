// middleware.go — Request logging and static fallback.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xob0t/doorstencil/internal/logging"
)

// requestLogger logs one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logging.Logger()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			log.Warn("request", append(attrs, "err", c.Errors.String())...)
			return
		}
		log.Info("request", attrs...)
	}
}

// staticFallback serves the embedded page for GET requests outside the API
// and a JSON 404 for everything else.
func staticFallback(static http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/ws/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		static.ServeHTTP(c.Writer, c.Request)
	}
}
