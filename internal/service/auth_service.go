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
	"github.com/yourusername/quiz-api/pkg/auth"
)

const (
	minAdminUsernameLen = 3
	maxAdminUsernameLen = 50
	minAdminPasswordLen = 8
)

// TokenIssuer выпускает токены администраторов (реализуется auth.JWTService)
type TokenIssuer interface {
	GenerateToken(username string) (string, time.Time, error)
}

// LoginResult содержит выданный токен
type LoginResult struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// AuthService отвечает за вход и создание администраторов
type AuthService struct {
	adminRepo repository.AdminUserRepository
	hasher    auth.PasswordHasher
	tokens    TokenIssuer
}

// NewAuthService создает сервис аутентификации
func NewAuthService(adminRepo repository.AdminUserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		hasher:    hasher,
		tokens:    tokens,
	}
}

// Login проверяет учётные данные и выдает токен.
// Любая ошибка учётных данных возвращается как ErrUnauthorized без уточнения причины.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AuthService] Неудачный вход: администратор %q не найден", username)
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	ok, err := s.hasher.Compare(admin.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		log.Printf("[AuthService] Неудачный вход: неверный пароль для %q", username)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.GenerateToken(admin.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Printf("[AuthService] Администратор %q вошёл в систему", admin.Username)
	return &LoginResult{Token: token, Username: admin.Username, ExpiresAt: expiresAt}, nil
}

// CreateAdmin создает администратора; занятое имя возвращает ErrConflict
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*entity.AdminUser, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minAdminUsernameLen || n > maxAdminUsernameLen {
		return nil, fmt.Errorf("%w: username must be %d-%d characters", apperrors.ErrValidation, minAdminUsernameLen, maxAdminUsernameLen)
	}
	if utf8.RuneCountInString(password) < minAdminPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minAdminPasswordLen)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &entity.AdminUser{Username: username, PasswordHash: hash}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	log.Printf("[AuthService] Создан администратор %q (ID=%d)", admin.Username, admin.ID)
	return admin, nil
}

// EnsureAdmin создает администратора, если его ещё нет. Возвращает true, если он был создан.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}
	if _, err := s.CreateAdmin(ctx, username, password); err != nil {
		// Другой экземпляр успел создать администратора
		if errors.Is(err, apperrors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
