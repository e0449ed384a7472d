package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"usersvc/internal/ratelimit"
	"usersvc/internal/transport/http/response"
)

// RateLimit gates a route group behind the admission controller. The route
// key is "<METHOD> <route pattern>", the client identity is the client IP.
// Denied requests get the 429 envelope and never reach binding or business
// logic.
func RateLimit(admitter ratelimit.Admitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()

		allowed, err := admitter.Allow(c.Request.Context(), route, c.ClientIP())
		if err != nil {
			response.Internal(c, err)
			return
		}
		if !allowed {
			response.Fail(c, http.StatusTooManyRequests, "Too many requests", "Too Many Requests")
			return
		}

		c.Next()
	}
}
