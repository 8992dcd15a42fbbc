package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/service"
)

// QuizHandler обрабатывает административные запросы викторин
type QuizHandler struct {
	quizService *service.QuizAdminService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizAdminService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// ListQuizzes возвращает викторины с флагами правильности
// GET /api/admin/quizzes?category={id}
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	categoryID, err := middleware.OptionalUintQuery(c, "category")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quizzes, err := h.quizService.ListQuizzes(c.Request.Context(), categoryID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListAdminQuizResponse(quizzes))
}

// GetQuiz возвращает викторину с пояснением и вариантами
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAdminQuizResponse(quiz))
}

// CreateQuiz создает викторину вместе с вариантами
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req dto.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), req.ToInput())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAdminQuizResponse(quiz))
}

// UpdateQuiz обновляет викторину, заменяя все варианты
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req dto.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quiz, err := h.quizService.UpdateQuiz(c.Request.Context(), quizID, req.ToInput())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAdminQuizResponse(quiz))
}

// DeleteQuiz удаляет викторину
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
