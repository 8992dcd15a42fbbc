package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// CategoryRepo реализует repository.CategoryRepository
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo создает новый репозиторий категорий
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create создает новую категорию
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	if err := conn(ctx, r.db).Create(category).Error; err != nil {
		return conflictOnUnique(err, "category %q already exists", category.Name)
	}
	return nil
}

// GetByID возвращает категорию по ID
func (r *CategoryRepo) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	var category entity.Category
	if err := conn(ctx, r.db).First(&category, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// List возвращает все категории, упорядоченные по ID
func (r *CategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := conn(ctx, r.db).Order("id").Find(&categories).Error
	return categories, err
}

// Update обновляет название и описание категории
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	result := conn(ctx, r.db).Model(&entity.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
		})
	if result.Error != nil {
		return conflictOnUnique(result.Error, "category %q already exists", category.Name)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет категорию; викторины удаляются каскадно на уровне БД
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&entity.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Count возвращает количество категорий
func (r *CategoryRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Category{}).Count(&count).Error
	return count, err
}
