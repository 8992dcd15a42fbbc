package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	categoryListCacheKey = "categories:all"
	categoryListCacheTTL = 5 * time.Minute
	maxCategoryNameLen   = 100
)

// CategoryService предоставляет методы для работы с категориями
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cacheRepo    repository.CacheRepository
}

// NewCategoryService создает сервис категорий; cacheRepo может быть nil
func NewCategoryService(categoryRepo repository.CategoryRepository, cacheRepo repository.CacheRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
	}
}

// ListCategories возвращает все категории, сначала пробуя кеш
func (s *CategoryService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	if s.cacheRepo != nil {
		var cached []entity.Category
		err := s.cacheRepo.GetJSON(categoryListCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[CategoryService] Ошибка чтения кеша категорий: %v", err)
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(categoryListCacheKey, categories, categoryListCacheTTL); err != nil {
			log.Printf("[CategoryService] Ошибка записи кеша категорий: %v", err)
		}
	}
	return categories, nil
}

// GetCategory возвращает категорию по ID
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*entity.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// CountCategories возвращает количество категорий
func (s *CategoryService) CountCategories(ctx context.Context) (int64, error) {
	return s.categoryRepo.Count(ctx)
}

func validateCategory(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: category name must not be blank", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "", fmt.Errorf("%w: category name must be at most %d characters", apperrors.ErrValidation, maxCategoryNameLen)
	}
	return name, nil
}

// CreateCategory создает категорию; дубликат имени возвращает ErrConflict
func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*entity.Category, error) {
	name, err := validateCategory(name)
	if err != nil {
		return nil, err
	}
	category := &entity.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidateCache()
	log.Printf("[CategoryService] Создана категория ID=%d (%s)", category.ID, category.Name)
	return category, nil
}

// UpdateCategory обновляет название и описание категории
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, name, description string) (*entity.Category, error) {
	name, err := validateCategory(name)
	if err != nil {
		return nil, err
	}
	category := &entity.Category{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return s.categoryRepo.GetByID(ctx, id)
}

// DeleteCategory удаляет категорию вместе с её викторинами
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache()
	log.Printf("[CategoryService] Удалена категория ID=%d", id)
	return nil
}

func (s *CategoryService) invalidateCache() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(categoryListCacheKey); err != nil {
		log.Printf("[CategoryService] Не удалось сбросить кеш категорий: %v", err)
	}
}
