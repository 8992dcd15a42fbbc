package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/service"
)

// Player описывает игровой процесс (реализуется service.PlayService)
type Player interface {
	NextQuiz(ctx context.Context, categoryID uint, sessionID string) (*entity.Quiz, error)
	SubmitAnswer(ctx context.Context, quizID uint, sessionID string, selected []uint) (*service.AnswerResult, error)
	Result(ctx context.Context, categoryID uint, sessionID string) (*service.CategoryResult, error)
}

// PlayHandler обрабатывает публичные игровые запросы
type PlayHandler struct {
	player  Player
	session helper.SessionCookie
}

// NewPlayHandler создает новый игровой обработчик
func NewPlayHandler(player Player, session helper.SessionCookie) *PlayHandler {
	return &PlayHandler{
		player:  player,
		session: session,
	}
}

// NextQuiz выдаёт случайный неотвеченный вопрос категории.
// GET /api/quizzes?category={id}. Cookie сессии создается при отсутствии.
func (h *PlayHandler) NextQuiz(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)
	sessionID := h.session.Ensure(c)

	quiz, err := h.player.NextQuiz(c.Request.Context(), categoryID, sessionID)
	if err != nil {
		handleError(c, err)
		return
	}
	if quiz == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.NewPlayerQuizResponse(quiz))
}

// SubmitAnswer принимает ответ на вопрос
// POST /api/quizzes/{id}/answer
func (h *PlayHandler) SubmitAnswer(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	sessionID := h.session.Read(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session cookie is required", "error_type": "session_missing"})
		return
	}

	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.player.SubmitAnswer(c.Request.Context(), quizID, sessionID, req.SelectedChoiceIDs)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAnswerResponse(result))
}

// Result возвращает итог сессии по категории или 204, пока ответы не завершены
// GET /api/result?category={id}
func (h *PlayHandler) Result(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)
	sessionID := h.session.Read(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session cookie is required", "error_type": "session_missing"})
		return
	}

	result, err := h.player.Result(c.Request.Context(), categoryID, sessionID)
	if err != nil {
		handleError(c, err)
		return
	}
	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.NewResultResponse(result))
}
