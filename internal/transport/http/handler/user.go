package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/gin-gonic/gin"
)

type userService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	SetEmail(ctx context.Context, id, email string) (*domain.User, error)
}

type UserHandler struct {
	users  userService
	logger *slog.Logger
}

func NewUserHandler(users userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.With("component", "user_handler")}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type setEmailRequest struct {
	Email *string `json:"email" binding:"required"`
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, h.logger, "get user", err)
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt})
}

func (h *UserHandler) SetEmail(c *gin.Context) {
	var req setEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.users.SetEmail(c.Request.Context(), userID(c), *req.Email)
	if err != nil {
		writeError(c, h.logger, "set email", err)
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt})
}
