package mw

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"laundry-booking-backend/internal/auth"
)

const contextClaims = "claims"

// Auth validates the bearer token and stores its claims in the context.
func Auth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "unauthenticated", "Missing Authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abort(c, http.StatusUnauthorized, "unauthenticated", "Authorization header must be a bearer token")
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthenticated", "Invalid or expired token")
			return
		}

		c.Set(contextClaims, claims)
		c.Next()
	}
}

// Claims returns the session set by Auth, or nil outside an authenticated route.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(contextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// RequireAdmin rejects callers whose session is not an administrator's.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, "unauthenticated", "Authentication required")
			return
		}
		if !claims.IsAdmin {
			abort(c, http.StatusForbidden, "forbidden", "Administrator access required")
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin allows the request when the path parameter names the caller or the caller is an administrator.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, "unauthenticated", "Authentication required")
			return
		}
		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			abort(c, http.StatusBadRequest, "validation_failed", "Invalid "+param)
			return
		}
		if id != claims.UserID && !claims.IsAdmin {
			abort(c, http.StatusForbidden, "forbidden", "Not allowed to access another user's data")
			return
		}
		c.Next()
	}
}
