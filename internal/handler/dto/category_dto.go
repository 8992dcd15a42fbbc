package dto

import "github.com/yourusername/quiz-api/internal/domain/entity"

// CategoryResponse представляет категорию
type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryRequest представляет запрос на создание или обновление категории
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"max=1000"`
}

// NewCategoryResponse создает DTO категории
func NewCategoryResponse(category *entity.Category) *CategoryResponse {
	if category == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}

// NewListCategoryResponse создает слайс DTO категорий
func NewListCategoryResponse(categories []entity.Category) []*CategoryResponse {
	list := make([]*CategoryResponse, len(categories))
	for i := range categories {
		list[i] = NewCategoryResponse(&categories[i])
	}
	return list
}
