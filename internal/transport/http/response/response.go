// Package response renders the uniform error envelope every failure in the
// pipeline is reduced to. Success bodies are written directly by handlers;
// only errors pass through here.
package response

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the single JSON shape of all non-2xx responses. Message is a
// string for single failures or a []string when validation collects several
// violations.
type Envelope struct {
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	Message    any       `json:"message"`
	Error      string    `json:"error"`
}

// Fail writes the envelope for a classified failure and logs it server-side.
func Fail(c *gin.Context, status int, message any, label string) {
	env := Envelope{
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
		Path:       c.Request.URL.Path,
		Method:     c.Request.Method,
		Message:    message,
		Error:      label,
	}

	if raw, err := json.Marshal(env); err == nil {
		log.Printf("%s %s -> %s", env.Method, env.Path, raw)
	}

	c.AbortWithStatusJSON(status, env)
}

// Internal flattens an unclassified error to a generic 500. The underlying
// cause is logged but never leaves the process.
func Internal(c *gin.Context, err error) {
	if err != nil {
		log.Printf("%s %s internal error: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	Fail(c, http.StatusInternalServerError, "Internal server error", "Internal Server Error")
}

// Recovery adapts Internal to gin.CustomRecovery so panics end up in the
// same envelope as every other failure.
func Recovery(c *gin.Context, recovered any) {
	log.Printf("%s %s panic recovered: %v", c.Request.Method, c.Request.URL.Path, recovered)
	Fail(c, http.StatusInternalServerError, "Internal server error", "Internal Server Error")
}
