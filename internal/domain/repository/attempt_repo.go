package repository

import (
	"context"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// SessionProgress содержит счётчики попыток сессии в одной категории
type SessionProgress struct {
	Attempted int64
	Correct   int64
}

// CategoryAttemptStats содержит агрегаты попыток по категории
type CategoryAttemptStats struct {
	Attempts int64
	Correct  int64
	Sessions int64
}

// QuizAttemptStats содержит агрегаты попыток по одной викторине
type QuizAttemptStats struct {
	QuizID   uint
	Question string
	Attempts int64
	Correct  int64
}

// AttemptRepository определяет методы журнала попыток.
// Попытки только добавляются: обновления и удаления не предусмотрены.
type AttemptRepository interface {
	// Exists проверяет наличие попытки для пары (сессия, викторина)
	Exists(ctx context.Context, sessionID string, quizID uint) (bool, error)
	// Create сохраняет попытку и выбранные варианты.
	// Нарушение уникальности (session_id, quiz_id) возвращается как ErrConflict.
	Create(ctx context.Context, attempt *entity.QuizAttempt) error
	// SessionProgress считает попытки сессии по викторинам категории
	SessionProgress(ctx context.Context, categoryID uint, sessionID string) (*SessionProgress, error)
	CategoryStats(ctx context.Context, categoryID uint) (*CategoryAttemptStats, error)
	QuizStats(ctx context.Context, categoryID uint) ([]QuizAttemptStats, error)
}
