package service

import (
	"context"
	"fmt"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
)

// Table представляет выгрузку: заголовки и строки в одном порядке колонок
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// QuizAccuracy содержит статистику ответов на одну викторину
type QuizAccuracy struct {
	QuizID      uint
	Question    string
	Attempts    int64
	Correct     int64
	AccuracyPct float64
}

// CategoryStats содержит статистику попыток по категории
type CategoryStats struct {
	CategoryID   uint
	CategoryName string
	TotalQuizzes int64
	Attempts     int64
	Correct      int64
	Sessions     int64
	AccuracyPct  float64
	Quizzes      []QuizAccuracy
}

// ExportService готовит выгрузки банка вопросов и статистики
type ExportService struct {
	categoryRepo repository.CategoryRepository
	quizRepo     repository.QuizRepository
	attemptRepo  repository.AttemptRepository
}

// NewExportService создает сервис выгрузок
func NewExportService(
	categoryRepo repository.CategoryRepository,
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
) *ExportService {
	return &ExportService{
		categoryRepo: categoryRepo,
		quizRepo:     quizRepo,
		attemptRepo:  attemptRepo,
	}
}

// CategoryStats собирает статистику попыток по категории
func (s *ExportService) CategoryStats(ctx context.Context, categoryID uint) (*CategoryStats, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category #%d: %w", categoryID, err)
	}
	total, err := s.quizRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	agg, err := s.attemptRepo.CategoryStats(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	perQuiz, err := s.attemptRepo.QuizStats(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	stats := &CategoryStats{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		TotalQuizzes: total,
		Attempts:     agg.Attempts,
		Correct:      agg.Correct,
		Sessions:     agg.Sessions,
		AccuracyPct:  ScorePercentage(agg.Correct, agg.Attempts),
		Quizzes:      make([]QuizAccuracy, 0, len(perQuiz)),
	}
	for _, q := range perQuiz {
		stats.Quizzes = append(stats.Quizzes, QuizAccuracy{
			QuizID:      q.QuizID,
			Question:    q.Question,
			Attempts:    q.Attempts,
			Correct:     q.Correct,
			AccuracyPct: ScorePercentage(q.Correct, q.Attempts),
		})
	}
	return stats, nil
}

// CategoryStatsTable возвращает статистику категории в табличном виде
func (s *ExportService) CategoryStatsTable(ctx context.Context, categoryID uint) (*Table, error) {
	stats, err := s.CategoryStats(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	table := &Table{
		Name:    "Статистика",
		Headers: []string{"ID викторины", "Вопрос", "Попыток", "Правильных", "Точность, %"},
	}
	for _, q := range stats.Quizzes {
		table.Rows = append(table.Rows, []interface{}{q.QuizID, q.Question, q.Attempts, q.Correct, q.AccuracyPct})
	}
	table.Rows = append(table.Rows, []interface{}{
		"Итого", stats.CategoryName, stats.Attempts, stats.Correct, stats.AccuracyPct,
	})
	table.Rows = append(table.Rows, []interface{}{
		"Сессий", stats.Sessions, "Викторин", stats.TotalQuizzes, "",
	})
	return table, nil
}

// QuizBankTable возвращает банк вопросов: одна строка на вариант ответа
func (s *ExportService) QuizBankTable(ctx context.Context, categoryID *uint) (*Table, error) {
	quizzes, err := s.quizRepo.List(ctx, repository.QuizFilters{CategoryID: categoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	table := &Table{
		Name:    "Вопросы",
		Headers: []string{"ID викторины", "Категория", "Вопрос", "Пояснение", "ID варианта", "Вариант", "Правильный"},
	}
	for _, q := range quizzes {
		table.Rows = append(table.Rows, quizRows(q, names[q.CategoryID])...)
	}
	return table, nil
}

func quizRows(q entity.Quiz, categoryName string) [][]interface{} {
	rows := make([][]interface{}, 0, len(q.Choices))
	for _, c := range q.Choices {
		correct := "Нет"
		if c.IsCorrect {
			correct = "Да"
		}
		rows = append(rows, []interface{}{q.ID, categoryName, q.Question, q.Explanation, c.ID, c.Text, correct})
	}
	return rows
}
