package repository

import (
	"context"

	"github.com/ErlanBelekov/printmarket/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListByUser returns newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
}
