package relay

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/loykin/apismoke/internal/constants"
)

const requestIDKey = "request_id"

// cors answers every preflight itself and stamps the allow-origin header on
// everything else.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		h.Set("Access-Control-Allow-Methods", constants.CORSAllowMethods)
		h.Set("Access-Control-Allow-Headers", constants.CORSAllowHeaders)
		h.Set("Access-Control-Max-Age", constants.CORSMaxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}

// requestID reuses an inbound X-Request-ID or mints one, and echoes it back.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(constants.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(constants.RequestIDHeader, id)
		c.Next()
	}
}

func isProxyPath(p string) bool {
	return strings.HasPrefix(p, constants.ProxyPrefix)
}

func isQuietPath(p string) bool {
	return strings.HasPrefix(p, "/favicon") || strings.HasPrefix(p, "/.")
}

func (r *Relay) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		switch {
		case isProxyPath(path):
			r.logger.WithRequestID(c.GetString(requestIDKey)).Info("proxy",
				"method", c.Request.Method,
				"path", path,
				"status", c.Writer.Status(),
				"duration", time.Since(start),
			)
		case isQuietPath(path):
		default:
			r.logger.Info("static", "path", path, "status", c.Writer.Status())
		}
	}
}
