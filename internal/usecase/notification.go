package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
)

type NotificationUsecase struct {
	repo repository.NotificationRepository
}

func NewNotificationUsecase(repo repository.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{repo: repo}
}

func (u *NotificationUsecase) List(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	out, err := u.repo.ListByUser(ctx, userID, clampLimit(limit, 20, 100))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}
