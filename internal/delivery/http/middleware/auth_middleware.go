package middleware

import (
	"context"
	"net/http"
	"strings"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/auth"
	"talenthub-backend/pkg/logger"
	"talenthub-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "auth_token"

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware resolves the caller's session when a token is present.
// Requests without a token continue anonymously; an invalid token is
// rejected. Role checks happen in the use cases.
func AuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase, audit *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			logger.Log.Debug("token validation failed", "error", err)
			audit.Log(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventUnauthenticated,
				IP:        c.ClientIP(),
				UserAgent: c.GetHeader("User-Agent"),
				RequestID: c.GetString(string(domain.KeyRequestID)),
				Path:      c.FullPath(),
				Details:   map[string]interface{}{"reason": "invalid_token"},
			})
			response.Error(c, http.StatusUnauthorized, "Invalid or expired session")
			c.Abort()
			return
		}

		// The role is read from the user store, never from the token
		session, err := authUC.ResolveSession(c.Request.Context(), domain.Identity{
			Subject: claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			Image:   claims.Picture,
		})
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(domain.KeySession), session)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeySession, session))
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	// 1. Try the Authorization header
	if h := c.GetHeader("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
		return ""
	}
	// 2. Fall back to the cookie
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// SessionFrom returns the resolved session, or nil for anonymous requests.
func SessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(string(domain.KeySession))
	if !ok {
		return nil
	}
	s, _ := v.(*domain.Session)
	return s
}
