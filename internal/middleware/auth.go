package middleware

import (
	"net/http"
	"strings"

	jwtsvc "mediahub/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// RequireAuth verifies the access token from the Authorization header or the
// accessToken cookie and puts the viewer identity into the context.
func RequireAuth(codec *jwtsvc.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			abortUnauthorized(c, "Missing access token")
			return
		}

		claims, err := codec.VerifyAccess(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// OptionalAuth resolves the viewer identity when a valid token is present and
// stays silent otherwise. Used for endpoints with viewer-relative fields that
// anonymous clients may also call.
func OptionalAuth(codec *jwtsvc.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := tokenFromRequest(c); tokenStr != "" {
			if claims, err := codec.VerifyAccess(tokenStr); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("username", claims.Username)
			}
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
