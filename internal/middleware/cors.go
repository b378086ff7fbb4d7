package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS handles cross-origin requests. origin is a comma-separated allow list
// from configuration; "*" (the default) reflects whichever origin calls,
// which keeps credentialed requests working.
func CORS(origin string) gin.HandlerFunc {
	allowAll := origin == "" || origin == "*"
	allowed := make(map[string]bool)
	for _, o := range strings.Split(origin, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			allowed[o] = true
		}
	}

	return func(c *gin.Context) {
		reqOrigin := c.GetHeader("Origin")

		if reqOrigin != "" && (allowAll || allowed[reqOrigin]) {
			c.Header("Access-Control-Allow-Origin", reqOrigin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, X-Requested-With, Accept")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
