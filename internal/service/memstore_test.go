package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// memStore хранит категории, викторины и попытки в памяти для сценарных тестов.
// Уникальность (session_id, quiz_id) проверяется так же, как уникальным индексом в БД.
type memStore struct {
	mu         sync.Mutex
	categories map[uint]*entity.Category
	quizzes    map[uint]*entity.Quiz
	attempts   []*entity.QuizAttempt
	nextID     uint
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[uint]*entity.Category),
		quizzes:    make(map[uint]*entity.Quiz),
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

// addQuiz создает викторину; correct задаёт флаги вариантов по порядку
func (s *memStore) addQuiz(categoryID uint, question string, correct ...bool) *entity.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz := &entity.Quiz{ID: s.id(), CategoryID: categoryID, Question: question, Explanation: "explanation of " + question}
	for i, c := range correct {
		quiz.Choices = append(quiz.Choices, entity.Choice{ID: s.id(), QuizID: quiz.ID, Text: fmt.Sprintf("choice %d", i+1), IsCorrect: c})
	}
	s.quizzes[quiz.ID] = quiz
	return quiz
}

func (s *memStore) addCategory(name string) *entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	category := &entity.Category{ID: s.id(), Name: name}
	s.categories[category.ID] = category
	return category
}

func (s *memStore) answered(sessionID string, quizID uint) bool {
	for _, a := range s.attempts {
		if a.SessionID == sessionID && a.QuizID == quizID {
			return true
		}
	}
	return false
}

type memCategories struct{ *memStore }

func (r memCategories) Create(ctx context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	category.ID = r.id()
	r.categories[category.ID] = category
	return nil
}

func (r memCategories) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r memCategories) List(ctx context.Context) ([]entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCategories) Update(ctx context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r memCategories) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

func (r memCategories) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.categories)), nil
}

type memQuizzes struct{ *memStore }

func (r memQuizzes) Create(ctx context.Context, quiz *entity.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz.ID = r.id()
	for i := range quiz.Choices {
		quiz.Choices[i].ID = r.id()
		quiz.Choices[i].QuizID = quiz.ID
	}
	r.quizzes[quiz.ID] = quiz
	return nil
}

func (r memQuizzes) GetByID(ctx context.Context, id uint) (*entity.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.quizzes[id]; ok {
		return q, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r memQuizzes) List(ctx context.Context, filters repository.QuizFilters) ([]entity.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Quiz
	for _, q := range r.quizzes {
		if filters.CategoryID == nil || q.CategoryID == *filters.CategoryID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memQuizzes) Update(ctx context.Context, quiz *entity.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[quiz.ID]; !ok {
		return apperrors.ErrNotFound
	}
	for i := range quiz.Choices {
		quiz.Choices[i].ID = r.id()
		quiz.Choices[i].QuizID = quiz.ID
	}
	r.quizzes[quiz.ID] = quiz
	return nil
}

func (r memQuizzes) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.quizzes, id)
	kept := r.attempts[:0]
	for _, a := range r.attempts {
		if a.QuizID != id {
			kept = append(kept, a)
		}
	}
	r.attempts = kept
	return nil
}

func (r memQuizzes) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, q := range r.quizzes {
		if q.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r memQuizzes) ListUnansweredIDs(ctx context.Context, categoryID uint, sessionID string) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, q := range r.quizzes {
		if q.CategoryID == categoryID && !r.answered(sessionID, q.ID) {
			ids = append(ids, q.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type memAttempts struct{ *memStore }

func (r memAttempts) Exists(ctx context.Context, sessionID string, quizID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answered(sessionID, quizID), nil
}

func (r memAttempts) Create(ctx context.Context, attempt *entity.QuizAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.answered(attempt.SessionID, attempt.QuizID) {
		return fmt.Errorf("%w: duplicate attempt", apperrors.ErrConflict)
	}
	attempt.ID = r.id()
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r memAttempts) SessionProgress(ctx context.Context, categoryID uint, sessionID string) (*repository.SessionProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress := &repository.SessionProgress{}
	for _, a := range r.attempts {
		q, ok := r.quizzes[a.QuizID]
		if !ok || q.CategoryID != categoryID || a.SessionID != sessionID {
			continue
		}
		progress.Attempted++
		if a.IsCorrect {
			progress.Correct++
		}
	}
	return progress, nil
}

func (r memAttempts) CategoryStats(ctx context.Context, categoryID uint) (*repository.CategoryAttemptStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repository.CategoryAttemptStats{}
	sessions := make(map[string]struct{})
	for _, a := range r.attempts {
		if q, ok := r.quizzes[a.QuizID]; ok && q.CategoryID == categoryID {
			stats.Attempts++
			if a.IsCorrect {
				stats.Correct++
			}
			sessions[a.SessionID] = struct{}{}
		}
	}
	stats.Sessions = int64(len(sessions))
	return stats, nil
}

func (r memAttempts) QuizStats(ctx context.Context, categoryID uint) ([]repository.QuizAttemptStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.QuizAttemptStats
	for _, q := range r.quizzes {
		if q.CategoryID != categoryID {
			continue
		}
		row := repository.QuizAttemptStats{QuizID: q.ID, Question: q.Question}
		for _, a := range r.attempts {
			if a.QuizID == q.ID {
				row.Attempts++
				if a.IsCorrect {
					row.Correct++
				}
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizID < out[j].QuizID })
	return out, nil
}
