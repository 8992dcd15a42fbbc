package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie описывает параметры cookie игровой сессии
type SessionCookie struct {
	Name   string
	MaxAge int // секунды
	Secure bool
}

// Read возвращает идентификатор сессии из cookie или пустую строку.
// Значение, не являющееся UUID, считается отсутствующим.
func (s SessionCookie) Read(c *gin.Context) string {
	value, err := c.Cookie(s.Name)
	if err != nil || value == "" {
		return ""
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return ""
	}
	return id.String()
}

// Ensure возвращает идентификатор сессии, создавая новый UUID, если cookie нет или она некорректна.
// Срок жизни cookie продлевается при каждом вызове.
func (s SessionCookie) Ensure(c *gin.Context) string {
	sessionID := s.Read(c)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, sessionID, s.MaxAge, "/", "", s.Secure, true)
	return sessionID
}
