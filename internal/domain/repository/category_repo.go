package repository

import (
	"context"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// CategoryRepository определяет методы для работы с категориями
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uint) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
