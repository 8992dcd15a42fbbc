package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck проверяет одну зависимость
type HealthCheck func(ctx context.Context) error

// HealthHandler отвечает на проверки живости
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler создает обработчик с именованными проверками
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health проверяет БД и Redis
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			log.Printf("[Health] Проверка %s не пройдена: %v", name, err)
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}
