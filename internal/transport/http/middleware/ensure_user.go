package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type userUpserter interface {
	Upsert(ctx context.Context, id string) error
}

// EnsureUser runs after Auth. It upserts the token subject into the users
// table so jobs, printers and bids always reference an existing user.
func EnsureUser(repo userUpserter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if err := repo.Upsert(c.Request.Context(), userID); err != nil {
			logger.ErrorContext(c.Request.Context(), "ensure user upsert", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}
		c.Next()
	}
}
