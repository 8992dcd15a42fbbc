package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// handleError сопоставляет ошибки сервисов с HTTP ответами
func handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrExpiredToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindError отвечает 400 на некорректное тело запроса
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
}
