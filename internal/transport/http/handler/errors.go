package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer = "Internal server error"
	errNoMatch        = "No compatible printer found"
)

// writeError maps domain error kinds to status codes. Anything the domain
// does not classify is logged and hidden behind a generic 500.
func writeError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(statusFor(de.Kind), gin.H{"error": de.Message})
}

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}
