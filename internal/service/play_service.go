package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/websocket"
)

// EventPublisher рассылает события ленты попыток (реализуется websocket.Manager)
type EventPublisher interface {
	BroadcastEvent(ctx context.Context, eventType string, data interface{}) error
}

// AnswerResult содержит вердикт по ответу и ключ ответа
type AnswerResult struct {
	QuizID            uint
	IsCorrect         bool
	Explanation       string
	CorrectChoiceIDs  []uint
	SelectedChoiceIDs []uint
}

// CategoryResult содержит итог сессии по категории
type CategoryResult struct {
	CategoryID      uint
	CategoryName    string
	TotalQuestions  int64
	CorrectAnswers  int64
	ScorePercentage float64
}

// AttemptRecordedEvent публикуется после сохранения попытки
type AttemptRecordedEvent struct {
	QuizID     uint      `json:"quizId"`
	CategoryID uint      `json:"categoryId"`
	IsCorrect  bool      `json:"isCorrect"`
	At         time.Time `json:"at"`
}

// maxPickRetries ограничивает повторный выбор, если викторину удалили между запросами
const maxPickRetries = 3

// PlayService реализует игровой процесс: выбор вопроса, проверку ответа и подсчёт результата
type PlayService struct {
	tx           repository.Transactor
	categoryRepo repository.CategoryRepository
	quizRepo     repository.QuizRepository
	attemptRepo  repository.AttemptRepository
	publisher    EventPublisher

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewPlayService создает игровой сервис; publisher может быть nil, rng nil заменяется на источник от времени
func NewPlayService(
	tx repository.Transactor,
	categoryRepo repository.CategoryRepository,
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	publisher EventPublisher,
	rng *rand.Rand,
) *PlayService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PlayService{
		tx:           tx,
		categoryRepo: categoryRepo,
		quizRepo:     quizRepo,
		attemptRepo:  attemptRepo,
		publisher:    publisher,
		rng:          rng,
	}
}

func (s *PlayService) randomIndex(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrValidation)
	}
	return nil
}

// NextQuiz возвращает случайную викторину категории, на которую сессия ещё не отвечала.
// Возвращает (nil, nil), когда вопросы категории исчерпаны.
func (s *PlayService) NextQuiz(ctx context.Context, categoryID uint, sessionID string) (*entity.Quiz, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("category #%d: %w", categoryID, err)
	}

	candidates, err := s.quizRepo.ListUnansweredIDs(ctx, categoryID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unanswered quizzes: %w", err)
	}

	for attempt := 0; attempt < maxPickRetries && len(candidates) > 0; attempt++ {
		idx := s.randomIndex(len(candidates))
		quiz, err := s.quizRepo.GetByID(ctx, candidates[idx])
		if err == nil {
			return quiz, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load quiz #%d: %w", candidates[idx], err)
		}
		// Викторину удалили после выборки кандидатов
		candidates = append(candidates[:idx], candidates[idx+1:]...)
	}
	return nil, nil
}

// SubmitAnswer проверяет ответ и сохраняет попытку в одной транзакции.
// Повторный ответ той же сессии возвращает ErrConflict.
func (s *PlayService) SubmitAnswer(ctx context.Context, quizID uint, sessionID string, selected []uint) (*AnswerResult, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	var (
		result     *AnswerResult
		categoryID uint
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		quiz, err := s.quizRepo.GetByID(ctx, quizID)
		if err != nil {
			return fmt.Errorf("quiz #%d: %w", quizID, err)
		}

		exists, err := s.attemptRepo.Exists(ctx, sessionID, quizID)
		if err != nil {
			return fmt.Errorf("failed to check attempt: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: quiz #%d already answered", apperrors.ErrConflict, quizID)
		}

		correct := quiz.CorrectChoiceIDs()
		isCorrect := entity.SameChoiceSet(selected, correct)

		// Уникальный индекс отсекает параллельный ответ, прошедший проверку выше
		if err := s.attemptRepo.Create(ctx, entity.NewQuizAttempt(sessionID, quizID, selected, isCorrect)); err != nil {
			return err
		}

		categoryID = quiz.CategoryID
		result = &AnswerResult{
			QuizID:            quizID,
			IsCorrect:         isCorrect,
			Explanation:       quiz.Explanation,
			CorrectChoiceIDs:  correct,
			SelectedChoiceIDs: entity.NormalizeChoiceIDs(selected),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishAttempt(ctx, categoryID, result)
	return result, nil
}

func (s *PlayService) publishAttempt(ctx context.Context, categoryID uint, result *AnswerResult) {
	if s.publisher == nil {
		return
	}
	event := AttemptRecordedEvent{
		QuizID:     result.QuizID,
		CategoryID: categoryID,
		IsCorrect:  result.IsCorrect,
		At:         time.Now().UTC(),
	}
	if err := s.publisher.BroadcastEvent(ctx, websocket.EventAttemptRecorded, event); err != nil {
		log.Printf("[PlayService] Не удалось опубликовать событие попытки для викторины #%d: %v", result.QuizID, err)
	}
}

// Result возвращает итог сессии по категории.
// Пока сессия не ответила на все текущие викторины категории, возвращает (nil, nil).
func (s *PlayService) Result(ctx context.Context, categoryID uint, sessionID string) (*CategoryResult, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category #%d: %w", categoryID, err)
	}

	total, err := s.quizRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}
	progress, err := s.attemptRepo.SessionProgress(ctx, categoryID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if progress.Attempted < total {
		return nil, nil
	}

	return &CategoryResult{
		CategoryID:      category.ID,
		CategoryName:    category.Name,
		TotalQuestions:  total,
		CorrectAnswers:  progress.Correct,
		ScorePercentage: ScorePercentage(progress.Correct, total),
	}, nil
}
