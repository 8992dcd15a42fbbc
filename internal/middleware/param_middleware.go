package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam создает middleware для извлечения и валидации числового параметра URL.
// paramName - имя параметра в URL (например, "id").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param(paramName))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			c.Abort()
			return
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// ExtractUintQuery работает как ExtractUintParam, но для обязательного query-параметра (?category=1)
func ExtractUintQuery(queryName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.GetQuery(queryName)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Missing %s", queryName)})
			c.Abort()
			return
		}
		id, err := parseID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", queryName)})
			c.Abort()
			return
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// OptionalUintQuery разбирает необязательный query-параметр; nil, если параметр не задан
func OptionalUintQuery(c *gin.Context, queryName string) (*uint, error) {
	raw, ok := c.GetQuery(queryName)
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", queryName)
	}
	return &id, nil
}

// parseID принимает только положительные 32-битные идентификаторы
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("id must be positive")
	}
	return uint(id), nil
}
