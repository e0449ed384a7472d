package middleware

import (
	"log"

	"github.com/gin-gonic/gin"
)

// RequestLog writes one line per inbound request before anything else runs,
// so rate-limited and otherwise rejected requests still show up. The stdlib
// logger supplies the timestamp prefix.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Printf("request %s %s", c.Request.Method, c.Request.URL.Path)
		c.Next()
	}
}
