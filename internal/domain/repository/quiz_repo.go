package repository

import (
	"context"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// QuizFilters определяет фильтры для списка викторин
type QuizFilters struct {
	CategoryID *uint // Только викторины указанной категории
}

// QuizRepository определяет методы для работы с викторинами и их вариантами
type QuizRepository interface {
	// Create сохраняет викторину вместе с Choices
	Create(ctx context.Context, quiz *entity.Quiz) error
	// GetByID возвращает викторину с вариантами, упорядоченными по id
	GetByID(ctx context.Context, id uint) (*entity.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]entity.Quiz, error)
	// Update обновляет поля викторины и полностью заменяет её варианты
	Update(ctx context.Context, quiz *entity.Quiz) error
	Delete(ctx context.Context, id uint) error
	// CountByCategory возвращает текущее число викторин в категории
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	// ListUnansweredIDs возвращает ID викторин категории, на которые сессия ещё не отвечала
	ListUnansweredIDs(ctx context.Context, categoryID uint, sessionID string) ([]uint, error)
}
