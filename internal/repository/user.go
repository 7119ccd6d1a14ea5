package repository

import (
	"context"

	"github.com/ErlanBelekov/printmarket/internal/domain"
)

type UserRepository interface {
	Upsert(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// SetEmail records the address notifications are mailed to. An empty
	// address turns email off for the user.
	SetEmail(ctx context.Context, id, email string) error
}
