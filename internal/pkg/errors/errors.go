package errors

import "errors"

// Общие ошибки приложения. Сервисы оборачивают их через fmt.Errorf("%w: ..."),
// хендлеры сопоставляют с HTTP-кодами через errors.Is.
var (
	// ErrNotFound используется, когда категория, викторина или администратор не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (неверный пароль, нет токена).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у запроса недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных
	// (нет правильного варианта, неверное число вариантов, пустой текст).
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда срок действия JWT истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния: повторный ответ на викторину
	// в рамках одной сессии, дублирующееся имя категории или администратора.
	ErrConflict = errors.New("resource state conflict")
)
