package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows the browser front end to call the API from another origin.
// The API is read-only from the browser's perspective, so the policy is
// permissive.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
