package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/service"
)

// CategoryHandler обрабатывает запросы категорий (публичные и административные)
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler создает новый обработчик категорий
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories возвращает все категории
// GET /api/categories, GET /api/admin/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListCategoryResponse(categories))
}

// GetCategory возвращает категорию по ID
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	category, err := h.categoryService.GetCategory(c.Request.Context(), categoryID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponse(category))
}

// CreateCategory создает категорию
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCategoryResponse(category))
}

// UpdateCategory обновляет категорию
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), categoryID, req.Name, req.Description)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponse(category))
}

// DeleteCategory удаляет категорию вместе с викторинами
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	if err := h.categoryService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
