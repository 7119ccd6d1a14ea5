package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
)

type UserUsecase struct {
	repo repository.UserRepository
}

func NewUserUsecase(repo repository.UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

func (u *UserUsecase) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

type setEmailInput struct {
	Email string `validate:"omitempty,email,max=254"`
}

// SetEmail stores a normalized address. An empty address clears it.
func (u *UserUsecase) SetEmail(ctx context.Context, id, email string) (*domain.User, error) {
	in := setEmailInput{Email: strings.ToLower(strings.TrimSpace(email))}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := u.repo.SetEmail(ctx, id, in.Email); err != nil {
		return nil, fmt.Errorf("set email: %w", err)
	}
	return u.Get(ctx, id)
}
