package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Exists проверяет, отвечала ли сессия на викторину
func (r *AttemptRepo) Exists(ctx context.Context, sessionID string, quizID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.QuizAttempt{}).
		Where("session_id = ? AND quiz_id = ?", sessionID, quizID).
		Count(&count).Error
	return count > 0, err
}

// Create сохраняет попытку вместе с выбранными вариантами.
// Уникальный индекс (session_id, quiz_id) закрывает гонку параллельных ответов.
func (r *AttemptRepo) Create(ctx context.Context, attempt *entity.QuizAttempt) error {
	if err := conn(ctx, r.db).Create(attempt).Error; err != nil {
		return conflictOnUnique(err, "quiz #%d already answered in this session", attempt.QuizID)
	}
	return nil
}

// SessionProgress считает попытки и правильные ответы сессии в категории
func (r *AttemptRepo) SessionProgress(ctx context.Context, categoryID uint, sessionID string) (*repository.SessionProgress, error) {
	var row struct {
		Attempted int64
		Correct   int64
	}
	err := conn(ctx, r.db).Model(&entity.QuizAttempt{}).
		Select("COUNT(*) AS attempted, COUNT(*) FILTER (WHERE quiz_attempts.is_correct) AS correct").
		Joins("JOIN quizzes q ON q.id = quiz_attempts.quiz_id").
		Where("q.category_id = ? AND quiz_attempts.session_id = ?", categoryID, sessionID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &repository.SessionProgress{Attempted: row.Attempted, Correct: row.Correct}, nil
}

// CategoryStats возвращает агрегаты всех попыток по категории
func (r *AttemptRepo) CategoryStats(ctx context.Context, categoryID uint) (*repository.CategoryAttemptStats, error) {
	var stats repository.CategoryAttemptStats
	err := conn(ctx, r.db).Model(&entity.QuizAttempt{}).
		Select("COUNT(*) AS attempts, " +
			"COUNT(*) FILTER (WHERE quiz_attempts.is_correct) AS correct, " +
			"COUNT(DISTINCT quiz_attempts.session_id) AS sessions").
		Joins("JOIN quizzes q ON q.id = quiz_attempts.quiz_id").
		Where("q.category_id = ?", categoryID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// QuizStats возвращает попытки по каждой викторине категории, включая викторины без попыток
func (r *AttemptRepo) QuizStats(ctx context.Context, categoryID uint) ([]repository.QuizAttemptStats, error) {
	var stats []repository.QuizAttemptStats
	err := conn(ctx, r.db).Table("quizzes q").
		Select("q.id AS quiz_id, q.question AS question, " +
			"COUNT(qa.id) AS attempts, " +
			"COUNT(qa.id) FILTER (WHERE qa.is_correct) AS correct").
		Joins("LEFT JOIN quiz_attempts qa ON qa.quiz_id = q.id").
		Where("q.category_id = ?", categoryID).
		Group("q.id, q.question").
		Order("q.id").
		Scan(&stats).Error
	return stats, err
}
