package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// ChoiceInput описывает вариант ответа во входных данных администратора
type ChoiceInput struct {
	Text      string
	IsCorrect bool
}

// QuizInput описывает викторину во входных данных администратора
type QuizInput struct {
	Question    string
	Explanation string
	CategoryID  uint
	Choices     []ChoiceInput
}

// QuizAdminService предоставляет CRUD викторин для администраторов
type QuizAdminService struct {
	tx             repository.Transactor
	categoryRepo   repository.CategoryRepository
	quizRepo       repository.QuizRepository
	choicesPerQuiz int
}

// NewQuizAdminService создает сервис; choicesPerQuiz = 0 отключает проверку числа вариантов
func NewQuizAdminService(
	tx repository.Transactor,
	categoryRepo repository.CategoryRepository,
	quizRepo repository.QuizRepository,
	choicesPerQuiz int,
) *QuizAdminService {
	return &QuizAdminService{
		tx:             tx,
		categoryRepo:   categoryRepo,
		quizRepo:       quizRepo,
		choicesPerQuiz: choicesPerQuiz,
	}
}

// validateQuizInput применяется одинаково при создании и при обновлении
func (s *QuizAdminService) validateQuizInput(in QuizInput) error {
	if strings.TrimSpace(in.Question) == "" {
		return fmt.Errorf("%w: question must not be blank", apperrors.ErrValidation)
	}
	if strings.TrimSpace(in.Explanation) == "" {
		return fmt.Errorf("%w: explanation must not be blank", apperrors.ErrValidation)
	}
	if in.CategoryID == 0 {
		return fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if len(in.Choices) == 0 {
		return fmt.Errorf("%w: at least one choice is required", apperrors.ErrValidation)
	}
	if s.choicesPerQuiz > 0 && len(in.Choices) != s.choicesPerQuiz {
		return fmt.Errorf("%w: exactly %d choices are required, got %d", apperrors.ErrValidation, s.choicesPerQuiz, len(in.Choices))
	}
	for i, c := range in.Choices {
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("%w: choice #%d text must not be blank", apperrors.ErrValidation, i+1)
		}
	}
	candidate := entity.Quiz{Choices: buildChoices(in.Choices)}
	if !candidate.HasCorrectChoice() {
		return fmt.Errorf("%w: at least one choice must be correct", apperrors.ErrValidation)
	}
	return nil
}

func buildChoices(in []ChoiceInput) []entity.Choice {
	choices := make([]entity.Choice, len(in))
	for i, c := range in {
		choices[i] = entity.Choice{
			Text:      strings.TrimSpace(c.Text),
			IsCorrect: c.IsCorrect,
		}
	}
	return choices
}

func (s *QuizAdminService) requireCategory(ctx context.Context, categoryID uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category #%d does not exist", apperrors.ErrValidation, categoryID)
		}
		return err
	}
	return nil
}

// ListQuizzes возвращает викторины, опционально только указанной категории
func (s *QuizAdminService) ListQuizzes(ctx context.Context, categoryID *uint) ([]entity.Quiz, error) {
	return s.quizRepo.List(ctx, repository.QuizFilters{CategoryID: categoryID})
}

// GetQuiz возвращает викторину с вариантами и флагами правильности
func (s *QuizAdminService) GetQuiz(ctx context.Context, id uint) (*entity.Quiz, error) {
	return s.quizRepo.GetByID(ctx, id)
}

// CreateQuiz создает викторину вместе с вариантами в одной транзакции
func (s *QuizAdminService) CreateQuiz(ctx context.Context, in QuizInput) (*entity.Quiz, error) {
	if err := s.validateQuizInput(in); err != nil {
		return nil, err
	}

	quiz := &entity.Quiz{
		Question:    strings.TrimSpace(in.Question),
		Explanation: strings.TrimSpace(in.Explanation),
		CategoryID:  in.CategoryID,
		Choices:     buildChoices(in.Choices),
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireCategory(ctx, in.CategoryID); err != nil {
			return err
		}
		return s.quizRepo.Create(ctx, quiz)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[QuizAdminService] Создана викторина ID=%d в категории ID=%d (%d вариантов)", quiz.ID, quiz.CategoryID, len(quiz.Choices))
	return quiz, nil
}

// UpdateQuiz обновляет викторину и полностью заменяет её варианты
func (s *QuizAdminService) UpdateQuiz(ctx context.Context, id uint, in QuizInput) (*entity.Quiz, error) {
	if err := s.validateQuizInput(in); err != nil {
		return nil, err
	}

	var updated *entity.Quiz
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.quizRepo.GetByID(ctx, id); err != nil {
			return fmt.Errorf("quiz #%d: %w", id, err)
		}
		if err := s.requireCategory(ctx, in.CategoryID); err != nil {
			return err
		}
		quiz := &entity.Quiz{
			ID:          id,
			Question:    strings.TrimSpace(in.Question),
			Explanation: strings.TrimSpace(in.Explanation),
			CategoryID:  in.CategoryID,
			Choices:     buildChoices(in.Choices),
		}
		if err := s.quizRepo.Update(ctx, quiz); err != nil {
			return err
		}
		var err error
		updated, err = s.quizRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteQuiz удаляет викторину вместе с вариантами и попытками
func (s *QuizAdminService) DeleteQuiz(ctx context.Context, id uint) error {
	if err := s.quizRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("quiz #%d: %w", id, err)
	}
	log.Printf("[QuizAdminService] Удалена викторина ID=%d", id)
	return nil
}
