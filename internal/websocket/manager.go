package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Event представляет структуру WebSocket-сообщения
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// incomingEvent используется для разбора сообщений клиента
type incomingEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Manager обрабатывает сообщения клиентов и рассылает события ленты
type Manager struct {
	hub            HubInterface
	cluster        *ClusterBridge
	messageHandler map[string]func(data json.RawMessage, client *Client) error
}

// NewManager создает новый менеджер WebSocket; cluster может быть nil
func NewManager(hub HubInterface, cluster *ClusterBridge) *Manager {
	m := &Manager{
		hub:            hub,
		cluster:        cluster,
		messageHandler: make(map[string]func(data json.RawMessage, client *Client) error),
	}
	m.RegisterHandler(EventFeedPing, func(_ json.RawMessage, client *Client) error {
		return m.SendEventToClient(client, EventFeedPong, map[string]int64{"ts": time.Now().Unix()})
	})
	return m
}

// RegisterHandler регистрирует обработчик для определенного типа сообщений
func (m *Manager) RegisterHandler(eventType string, handler func(data json.RawMessage, client *Client) error) {
	m.messageHandler[eventType] = handler
}

// HandleMessage обрабатывает входящее сообщение клиента.
// Возвращает error, если соединение нужно закрыть.
func (m *Manager) HandleMessage(message []byte, client *Client) error {
	var event incomingEvent
	if err := json.Unmarshal(message, &event); err != nil {
		m.SendErrorToClient(client, "invalid_message_format", "Invalid JSON format")
		return err
	}

	handler, ok := m.messageHandler[event.Type]
	if !ok {
		m.SendErrorToClient(client, "unknown_message_type", fmt.Sprintf("Unknown message type: %s", event.Type))
		return nil
	}
	return handler(event.Data, client)
}

// SendErrorToClient отправляет сообщение об ошибке, не закрывая соединение
func (m *Manager) SendErrorToClient(client *Client, code string, message string) {
	err := m.SendEventToClient(client, EventServerError, map[string]string{
		"code":    code,
		"message": message,
	})
	if err != nil {
		log.Printf("[WebSocketManager] Не удалось отправить ошибку клиенту %s: %v", client.ConnectionID, err)
	}
}

// SendEventToClient отправляет событие одному соединению
func (m *Manager) SendEventToClient(client *Client, eventType string, data interface{}) error {
	return m.hub.SendJSONToClient(client.ConnectionID, Event{Type: eventType, Data: data})
}

// BroadcastEvent рассылает событие локальным клиентам и, в кластерном режиме, остальным экземплярам
func (m *Manager) BroadcastEvent(ctx context.Context, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}
	m.hub.BroadcastBytes(payload)

	if m.cluster != nil {
		if err := m.cluster.Publish(ctx, payload); err != nil {
			return fmt.Errorf("cluster publish of %s failed: %w", eventType, err)
		}
	}
	return nil
}

// ClientCount возвращает количество подключенных администраторов
func (m *Manager) ClientCount() int {
	return m.hub.ClientCount()
}
