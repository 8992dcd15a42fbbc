package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/websocket"
)

// WSHandler подключает администраторов к ленте попыток
type WSHandler struct {
	hub      *websocket.Hub
	manager  *websocket.Manager
	tokens   middleware.TokenParser
	upgrader gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket.
// allowedOrigins синхронизирован с CORS; "*" разрешает любой Origin.
func NewWSHandler(
	hub *websocket.Hub,
	manager *websocket.Manager,
	tokens middleware.TokenParser,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		hub:     hub,
		manager: manager,
		tokens:  tokens,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Не браузерный клиент
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		log.Printf("[WSHandler] Отклонён Origin: %s", origin)
		return false
	}
}

// HandleConnection обрабатывает входящее WebSocket соединение
// GET /api/admin/ws?token=...
func (h *WSHandler) HandleConnection(c *gin.Context) {
	// Браузерный WebSocket не умеет передавать заголовок Authorization
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token parameter", "error_type": "token_missing"})
		return
	}
	claims, err := h.tokens.ParseToken(token)
	if err != nil {
		log.Printf("[WSHandler] Недействительный токен: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		log.Printf("[WSHandler] Ошибка upgrade соединения: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.Subject)
	client.StartPumps(h.manager.HandleMessage)

	welcome := map[string]interface{}{
		"connectionId": client.ConnectionID,
		"admin":        claims.Subject,
		"connected":    h.manager.ClientCount(),
		"serverTime":   time.Now().UTC(),
	}
	if err := h.manager.SendEventToClient(client, websocket.EventFeedWelcome, welcome); err != nil {
		log.Printf("[WSHandler] Не удалось отправить приветствие %s: %v", client.ConnectionID, err)
	}
}
