package repository

import (
	"context"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// AdminUserRepository определяет методы для работы с администраторами
type AdminUserRepository interface {
	Create(ctx context.Context, admin *entity.AdminUser) error
	GetByUsername(ctx context.Context, username string) (*entity.AdminUser, error)
}
