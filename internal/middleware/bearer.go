package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pipequote/internal/pkg/response"
)

// BearerAuth protects a route group with a static shared-secret bearer token.
// Fails closed: an empty configured secret rejects every request rather than
// waving them through.
func BearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			logAuthFailure(c, http.StatusUnauthorized, "secret_not_configured")
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Credential is not configured")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logAuthFailure(c, http.StatusUnauthorized, "missing_auth")
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logAuthFailure(c, http.StatusUnauthorized, "invalid_auth_format")
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(secret)) != 1 {
			logAuthFailure(c, http.StatusUnauthorized, "invalid_token")
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credential")
			c.Abort()
			return
		}

		c.Next()
	}
}

func logAuthFailure(c *gin.Context, status int, reason string) {
	log.Printf("auth_failure status=%d path=%s request_id=%s reason=%s", status, c.Request.URL.Path, requestID(c), reason)
}
