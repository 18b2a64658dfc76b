package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// static serves files from the configured directory for GET and HEAD; anything
// else outside the proxy prefix is refused.
func (r *Relay) static(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead:
	default:
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}
	http.FileServer(http.Dir(r.opts.StaticDir)).ServeHTTP(c.Writer, c.Request)
}
