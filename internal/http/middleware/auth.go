// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. BearerAuth extracts the
// Authorization header, resolves the token to an account through the injected
// Authenticator, and stores the identity in the Gin context for downstream
// handlers (and the rate limiter, which keys buckets by user when present).
//
// The middleware fails closed: missing, malformed, expired, or otherwise
// unverifiable tokens all produce the same 401 envelope.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

// Context keys populated by BearerAuth.
const (
	ctxKeyUserID = "userID"
	ctxKeyUser   = "authUser"
)

// Authenticator resolves an access token to the account it belongs to.
// Implementations must verify signature, expiry, and token type.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// BearerAuth returns a Gin middleware that requires a valid bearer token.
//
// On success it sets "userID" (string) and "authUser" (*domain.User) in the
// context and calls the next handler. On any failure it aborts with 401 and
// the standard error envelope.
func BearerAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "missing bearer token")
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(ctxKeyUserID, u.ID)
		c.Set(ctxKeyUser, u)
		c.Next()
	}
}

// RequireAdmin returns a Gin middleware that allows only accounts with the
// admin flag. It must run after BearerAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := UserFrom(c); u == nil || !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "forbidden",
				"message":    "admin access required",
			})
			return
		}
		c.Next()
	}
}

// UserFrom returns the authenticated account stored by BearerAuth, or nil.
func UserFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme match is case-insensitive; surrounding whitespace is ignored.
func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if h == "" {
		return ""
	}
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
