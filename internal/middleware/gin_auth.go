package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is the gin context key holding the accepted session id.
const SessionIDKey = "sessionID"

// GinRequireSession adapts the net/http AuthMiddleware to Gin.
func GinRequireSession(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		accepted := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accepted = true
			c.Request = r
			if id, ok := SessionIDFromContext(r.Context()); ok {
				c.Set(SessionIDKey, id)
			}
			c.Next()
		})

		auth.RequireSession(next).ServeHTTP(c.Writer, c.Request)

		// Rejected: the response is already written, stop the Gin chain
		if !accepted {
			c.Abort()
		}
	}
}
