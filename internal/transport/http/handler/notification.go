package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/gin-gonic/gin"
)

type notificationService interface {
	List(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
}

type NotificationHandler struct {
	notifications notificationService
	logger        *slog.Logger
}

func NewNotificationHandler(notifications notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger.With("component", "notification_handler")}
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	list, err := h.notifications.List(c.Request.Context(), userID(c), limit)
	if err != nil {
		writeError(c, h.logger, "list notifications", err)
		return
	}

	out := make([]notificationResponse, len(list))
	for i, n := range list {
		out[i] = notificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}
