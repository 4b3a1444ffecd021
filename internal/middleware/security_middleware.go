package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"pharmacy-backoffice/internal/auth"
	"pharmacy-backoffice/internal/policy"

	"github.com/gin-gonic/gin"
)

// SessionKey is where AuthMiddleware leaves the caller's *auth.Session.
const SessionKey = "session"

// AuthMiddleware checks if the caller has a valid, unrevoked session token
func AuthMiddleware(tokens *auth.Tokens, sessions auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			return
		}

		session, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		revoked, err := sessions.Revoked(c.Request.Context(), session.ID)
		if err != nil {
			log.Printf("session lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has ended"})
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// CurrentSession returns the session set by AuthMiddleware.
func CurrentSession(c *gin.Context) *auth.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*auth.Session); ok {
			return s
		}
	}
	return nil
}

// RequireAction lets the request through only if the caller's role may
// perform action on resource.
func RequireAction(resource policy.Resource, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if s == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}

		if err := policy.Authorize(s.Role, resource, action); err != nil {
			if errors.Is(err, policy.ErrUnknownRole) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown role"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
		c.Next()
	}
}
