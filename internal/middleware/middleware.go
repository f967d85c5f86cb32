package middleware

import (
	"strings"

	"alert-srv/pkg/response"
	"alert-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// Auth verifies the bearer token and stores the caller payload and scope in the request context.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			m.l.Warnf(ctx, "internal.middleware.Auth: missing or malformed Authorization header | Path: %s", c.Request.URL.Path)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		payload, err := m.jwtManager.Verify(token)
		if err != nil {
			m.l.Warnf(ctx, "internal.middleware.Auth.Verify: %v | Path: %s", err, c.Request.URL.Path)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		ctx = scope.SetPayloadToContext(ctx, payload)
		ctx = scope.SetScopeToContext(ctx, scope.NewScope(payload))
		ctx = m.l.With(ctx, "user_id", payload.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminOnly rejects callers without the admin role. It must run after Auth.
func (m Middleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc, ok := scope.GetScopeFromContext(c.Request.Context())
		if !ok {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		if !sc.IsAdmin() {
			m.l.Warnf(c.Request.Context(), "internal.middleware.AdminOnly: role %q denied | Path: %s", sc.Role, c.Request.URL.Path)
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
