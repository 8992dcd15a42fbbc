package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/service"
)

// Authenticator описывает вход и создание администраторов (реализуется service.AuthService)
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	CreateAdmin(ctx context.Context, username, password string) (*entity.AdminUser, error)
}

// AuthHandler обрабатывает вход администраторов и управление ими
type AuthHandler struct {
	authService Authenticator
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login проверяет учётные данные и возвращает токен
// POST /api/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		Username:  result.Username,
		ExpiresAt: result.ExpiresAt,
	})
}

// CreateAdmin создает нового администратора
// POST /api/admin/users
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	admin, err := h.authService.CreateAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	creator, _ := middleware.AdminUsername(c)
	log.Printf("[AuthHandler] Администратор %q создан администратором %q", admin.Username, creator)
	c.JSON(http.StatusCreated, dto.AdminUserResponse{ID: admin.ID, Username: admin.Username})
}

// Me возвращает имя текущего администратора
// GET /api/admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	username, _ := middleware.AdminUsername(c)
	c.JSON(http.StatusOK, gin.H{"username": username})
}
