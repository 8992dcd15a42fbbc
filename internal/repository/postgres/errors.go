package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const uniqueViolationCode = "23505"

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return true
	}
	return false
}

// conflictOnUnique переводит нарушение уникальности в apperrors.ErrConflict с описанием,
// остальные ошибки возвращает без изменений
func conflictOnUnique(err error, format string, args ...interface{}) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, fmt.Sprintf(format, args...))
	}
	return err
}

// notFound переводит gorm.ErrRecordNotFound в apperrors.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
