package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/printmarket/internal/auth"
	applog "github.com/ErlanBelekov/printmarket/internal/log"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user.
const UserIDKey = "userID"

const errUnauthorized = "Unauthorized"

// Auth validates a Bearer JWT and sets UserIDKey in the gin context. The
// user is also attached to the request context for logging.
func Auth(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		userID, err := auth.Verify(jwtKey, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(applog.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
