package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
)

// ============================================================================
// Моки репозиториев и зависимостей сервисов
// ============================================================================

// passThroughTx выполняет fn без настоящей транзакции
type passThroughTx struct {
	calls int
}

func (t *passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// MockCategoryRepository реализует repository.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuizRepository реализует repository.QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *entity.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*entity.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) List(ctx context.Context, filters repository.QuizFilters) ([]entity.Quiz, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Update(ctx context.Context, quiz *entity.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuizRepository) ListUnansweredIDs(ctx context.Context, categoryID uint, sessionID string) ([]uint, error) {
	args := m.Called(ctx, categoryID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockAttemptRepository реализует repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Exists(ctx context.Context, sessionID string, quizID uint) (bool, error) {
	args := m.Called(ctx, sessionID, quizID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *entity.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) SessionProgress(ctx context.Context, categoryID uint, sessionID string) (*repository.SessionProgress, error) {
	args := m.Called(ctx, categoryID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SessionProgress), args.Error(1)
}

func (m *MockAttemptRepository) CategoryStats(ctx context.Context, categoryID uint) (*repository.CategoryAttemptStats, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CategoryAttemptStats), args.Error(1)
}

func (m *MockAttemptRepository) QuizStats(ctx context.Context, categoryID uint) ([]repository.QuizAttemptStats, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.QuizAttemptStats), args.Error(1)
}

// MockAdminUserRepository реализует repository.AdminUserRepository
type MockAdminUserRepository struct {
	mock.Mock
}

func (m *MockAdminUserRepository) Create(ctx context.Context, admin *entity.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminUserRepository) GetByUsername(ctx context.Context, username string) (*entity.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminUser), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

// MockPasswordHasher реализует auth.PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer реализует TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(username string) (string, time.Time, error) {
	args := m.Called(username)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockEventPublisher реализует EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) BroadcastEvent(ctx context.Context, eventType string, data interface{}) error {
	args := m.Called(ctx, eventType, data)
	return args.Error(0)
}
