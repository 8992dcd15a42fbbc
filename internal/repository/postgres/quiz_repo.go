package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий викторин
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

func preloadChoices(db *gorm.DB) *gorm.DB {
	return db.Order("choices.id")
}

// Create создает викторину; gorm сохраняет Choices той же командой
func (r *QuizRepo) Create(ctx context.Context, quiz *entity.Quiz) error {
	return conn(ctx, r.db).Create(quiz).Error
}

// GetByID возвращает викторину вместе с вариантами ответа
func (r *QuizRepo) GetByID(ctx context.Context, id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := conn(ctx, r.db).Preload("Choices", preloadChoices).First(&quiz, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &quiz, nil
}

// List возвращает викторины с вариантами, опционально по категории
func (r *QuizRepo) List(ctx context.Context, filters repository.QuizFilters) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	query := conn(ctx, r.db).Preload("Choices", preloadChoices).Order("id")
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	err := query.Find(&quizzes).Error
	return quizzes, err
}

// Update обновляет поля викторины и заменяет все варианты.
// Вызывающий код должен выполнять метод внутри транзакции.
func (r *QuizRepo) Update(ctx context.Context, quiz *entity.Quiz) error {
	db := conn(ctx, r.db)
	result := db.Model(&entity.Quiz{}).
		Where("id = ?", quiz.ID).
		Updates(map[string]interface{}{
			"question":    quiz.Question,
			"explanation": quiz.Explanation,
			"category_id": quiz.CategoryID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	if err := db.Where("quiz_id = ?", quiz.ID).Delete(&entity.Choice{}).Error; err != nil {
		return err
	}
	for i := range quiz.Choices {
		quiz.Choices[i].ID = 0
		quiz.Choices[i].QuizID = quiz.ID
	}
	if len(quiz.Choices) > 0 {
		if err := db.Create(&quiz.Choices).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete удаляет викторину; варианты и попытки удаляются каскадно
func (r *QuizRepo) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&entity.Quiz{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountByCategory возвращает число викторин в категории на момент вызова
func (r *QuizRepo) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Quiz{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// ListUnansweredIDs возвращает ID викторин категории без попытки от сессии (anti-join)
func (r *QuizRepo) ListUnansweredIDs(ctx context.Context, categoryID uint, sessionID string) ([]uint, error) {
	var ids []uint
	err := conn(ctx, r.db).Model(&entity.Quiz{}).
		Joins("LEFT JOIN quiz_attempts qa ON qa.quiz_id = quizzes.id AND qa.session_id = ?", sessionID).
		Where("quizzes.category_id = ? AND qa.id IS NULL", categoryID).
		Order("quizzes.id").
		Pluck("quizzes.id", &ids).Error
	return ids, err
}
