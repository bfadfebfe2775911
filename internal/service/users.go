package service

import (
	"context"
	"errors"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// getUser loads a user, translating a missing row into domain.ErrUserNotFound.
func getUser(ctx context.Context, repo repository.UserRepository, id uuid.UUID) (*domain.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
