package notify

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
)

// StoreSink persists notifications so users can list them later.
type StoreSink struct {
	repo repository.NotificationRepository
}

func NewStoreSink(repo repository.NotificationRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Send(ctx context.Context, n domain.Notification) error {
	if err := s.repo.Create(ctx, &n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}
