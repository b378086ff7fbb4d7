package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets common hardening headers. Cross-Origin-Resource-Policy
// stays cross-origin so embedded QR images keep loading from other sites, and
// no Content-Security-Policy is set for the same reason.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")

		c.Next()
	}
}
