package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "studiobook/internal/pkg/jwt"
	"studiobook/internal/pkg/response"
)

// Auth validates the bearer token and puts user_id and role into the context.
// Token issuance lives in the external auth service; we only verify.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			return
		}
		if !strings.HasPrefix(h, "Bearer ") {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole gates a route group to a single role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Insufficient role")
			return
		}
		c.Next()
	}
}
