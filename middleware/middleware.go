package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Methods and headers the web client actually sends. PUT covers the
// recruiter back-office legal-notice editor.
const (
	corsAllowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowedHeaders = "Content-Type, Authorization, X-Requested-With"
)

// CORSMiddleware opens the API to the browser client. Authentication is
// bearer-token based, not cookie based, so any origin is acceptable and
// no credentials header is advertised.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		h.Set("Access-Control-Max-Age", "86400")
		h.Set("Content-Type", "application/json")

		// Preflight requests end here with 204.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
