package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost используется для паролей администраторов
const DefaultBcryptCost = bcrypt.DefaultCost

// PasswordHasher хеширует и проверяет пароли администраторов
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// BcryptHasher реализует PasswordHasher на bcrypt (сравнение за постоянное время)
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создает хешер; cost вне допустимого диапазона заменяется на DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash возвращает bcrypt-хеш пароля
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare проверяет пароль; несовпадение не считается ошибкой
func (h *BcryptHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
