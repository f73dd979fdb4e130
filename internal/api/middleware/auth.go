package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/auth"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

// ContextKeySession holds the key for the caller's *auth.Session in Gin context.
const ContextKeySession = "session"

// TokenResolver turns a bearer token into the caller's session.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*auth.Session, error)
}

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware creates a Gin middleware that resolves the bearer token on
// every request. The stored role is used, never the one in the token.
func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortJSON(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		token, ok := BearerToken(authHeader)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		session, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				abortJSON(c, http.StatusUnauthorized, apperrors.Message(err, "Token is not valid"))
				return
			}
			LoggerFromContext(c).Error("failed to resolve session", zap.Error(err))
			abortJSON(c, http.StatusInternalServerError, "Server error")
			return
		}

		c.Set(ContextKeySession, session)
		c.Next()
	}
}

// RequireRole rejects callers whose role differs. Assumes AuthMiddleware runs first.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		if session.Role != role {
			abortJSON(c, http.StatusForbidden, "Access denied, "+string(role)+" role required")
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the session stored by AuthMiddleware.
func SessionFromContext(c *gin.Context) (*auth.Session, bool) {
	v, exists := c.Get(ContextKeySession)
	if !exists {
		return nil, false
	}
	session, ok := v.(*auth.Session)
	return session, ok && session != nil
}
