package memory

import (
	"context"

	"github.com/ErlanBelekov/printmarket/internal/domain"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Upsert(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		now := r.s.now()
		r.s.users[id] = &domain.User{ID: id, CreatedAt: now, UpdatedAt: now}
	}
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) SetEmail(_ context.Context, id, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Email = email
	u.UpdatedAt = r.s.now()
	return nil
}

type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if n.ID == "" {
		n.ID = newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.now()
	}
	r.s.notifications = append(r.s.notifications, cloneNotification(n))
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Notification
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID != userID {
			continue
		}
		out = append(out, cloneNotification(n))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
