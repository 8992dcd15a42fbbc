package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/pkg/auth"
)

// AdminUsernameKey — ключ контекста Gin с именем аутентифицированного администратора
const AdminUsernameKey = "admin_username"

// TokenParser проверяет токен администратора (реализуется auth.JWTService)
type TokenParser interface {
	ParseToken(token string) (*auth.AdminClaims, error)
}

// AuthMiddleware обеспечивает аутентификацию для административных маршрутов
type AuthMiddleware struct {
	tokens TokenParser
}

// NewAuthMiddleware создает новый middleware
func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// bearerToken извлекает токен из заголовка Authorization: Bearer {token}
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticate не отклоняет запросы: при валидном токене кладёт имя администратора
// в контекст, иначе запрос продолжается анонимно.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.tokens.ParseToken(token)
		if err != nil {
			if gin.Mode() != gin.ReleaseMode {
				log.Printf("[AuthMiddleware] Токен отклонён для %s: %v", c.Request.URL.Path, err)
			}
			if errors.Is(err, apperrors.ErrExpiredToken) {
				c.Set("token_expired", true)
			}
			c.Next()
			return
		}

		c.Set(AdminUsernameKey, claims.Subject)
		c.Next()
	}
}

// RequireAdmin отклоняет анонимные запросы с 401. Применяется после Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := AdminUsername(c); ok {
			c.Next()
			return
		}
		errorType := "token_missing"
		if c.GetBool("token_expired") {
			errorType = "token_expired"
		} else if c.GetHeader("Authorization") != "" {
			errorType = "token_invalid"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": errorType})
	}
}

// AdminUsername возвращает имя администратора из контекста
func AdminUsername(c *gin.Context) (string, bool) {
	value, ok := c.Get(AdminUsernameKey)
	if !ok {
		return "", false
	}
	username, ok := value.(string)
	return username, ok && username != ""
}
