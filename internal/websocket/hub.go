package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Hub хранит подключения администраторов и рассылает им события.
// Набором клиентов владеет горутина Run; остальные обращаются через каналы.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu    sync.RWMutex
	index map[string]*Client // connectionID -> client, для адресных сообщений
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		index:      make(map[string]*Client),
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	log.Println("[Hub] Запущен")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Println("[Hub] Остановлен")
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			log.Printf("[Hub] Подключен администратор %s (conn=%s), всего: %d", client.AdminUsername, client.ConnectionID, len(h.clients))

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.enqueue(message) {
					log.Printf("[Hub] Буфер клиента %s переполнен, отключаем", client.ConnectionID)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	h.mu.Lock()
	delete(h.index, client.ConnectionID)
	client.closeSend()
	h.mu.Unlock()
	log.Printf("[Hub] Отключен администратор %s (conn=%s), всего: %d", client.AdminUsername, client.ConnectionID, len(h.clients))
}

// Register добавляет клиента; после остановки хаба возвращает false.
// Адресные сообщения доступны сразу после возврата true.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	h.index[client.ConnectionID] = client
	h.mu.Unlock()

	select {
	case h.register <- client:
		return true
	case <-h.done:
		h.mu.Lock()
		delete(h.index, client.ConnectionID)
		h.mu.Unlock()
		return false
	}
}

// Unregister удаляет клиента, если хаб ещё работает
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		h.remove(client)
	}
}

// BroadcastBytes ставит сообщение в очередь рассылки всем локальным клиентам
func (h *Hub) BroadcastBytes(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("[Hub] Очередь рассылки переполнена, сообщение отброшено")
	}
}

// BroadcastJSON сериализует v и рассылает всем локальным клиентам
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast message: %w", err)
	}
	h.BroadcastBytes(data)
	return nil
}

// SendJSONToClient отправляет сообщение одному соединению
func (h *Hub) SendJSONToClient(connectionID string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	// Канал send закрывается под h.mu, поэтому запись идёт под RLock
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.index[connectionID]
	if !ok {
		return fmt.Errorf("connection %s not found", connectionID)
	}
	if !client.enqueue(data) {
		return fmt.Errorf("send buffer of connection %s is full", connectionID)
	}
	return nil
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.index)
}
