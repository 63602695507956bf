package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

// RequireUser ensures the incoming request carries a session cookie with a
// user id, set by the login handler. The id is placed in the gin context for
// handlers; requests without one are rejected with 401.
func RequireUser(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := c.Cookie(cookieName)
		if err != nil || strings.TrimSpace(userID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "login required"},
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id stored by RequireUser.
func UserID(c *gin.Context) string {
	value, _ := c.Get(ContextUserID)
	userID, _ := value.(string)
	return userID
}
