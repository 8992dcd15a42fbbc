package websocket

import (
	"bytes"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента.
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту.
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения
	maxMessageSize = 512

	defaultClientBufferSize = 64
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client является посредником между WebSocket соединением и Hub.
type Client struct {
	// Имя администратора из токена
	AdminUsername string

	// Уникальный ID соединения
	ConnectionID string

	hub  *Hub
	conn *websocket.Conn

	// Буферизованный канал для исходящих сообщений
	send      chan []byte
	closeOnce sync.Once
}

// NewClient создает нового клиента для администратора
func NewClient(hub *Hub, conn *websocket.Conn, adminUsername string) *Client {
	return &Client{
		AdminUsername: adminUsername,
		ConnectionID:  uuid.New().String(),
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, defaultClientBufferSize),
	}
}

// enqueue кладёт сообщение в очередь клиента.
// Возвращает false, если буфер переполнен.
func (c *Client) enqueue(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend закрывает канал отправки ровно один раз
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// readPump читает сообщения клиента и передает их обработчику
func (c *Client) readPump(messageHandler func(message []byte, client *Client) error) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		log.Printf("[WebSocket] Read pump остановлен: admin=%s conn=%s", c.AdminUsername, c.ConnectionID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Ошибка чтения (admin=%s conn=%s): %v", c.AdminUsername, c.ConnectionID, err)
			}
			return
		}
		if err := safeHandleMessage(message, c, messageHandler); err != nil {
			log.Printf("[WebSocket] Ошибка обработчика (admin=%s conn=%s): %v. Закрываем соединение.", c.AdminUsername, c.ConnectionID, err)
			return
		}
	}
}

// safeHandleMessage вызывает обработчик с recover
func safeHandleMessage(message []byte, client *Client, messageHandler func(message []byte, client *Client) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WebSocket] PANIC в обработчике сообщения (conn=%s): %v\n%s", client.ConnectionID, r, string(debug.Stack()))
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
	if messageHandler == nil {
		return nil
	}
	return messageHandler(message, client)
}

// writePump отправляет сообщения из канала send и пингует клиента
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Хаб закрыл канал
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WebSocket] Ошибка записи (conn=%s): %v", c.ConnectionID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// StartPumps регистрирует клиента в хабе и запускает горутины чтения и записи
func (c *Client) StartPumps(messageHandler func(message []byte, client *Client) error) {
	if !c.hub.Register(c) {
		c.conn.Close()
		return
	}
	go c.writePump()
	go c.readPump(messageHandler)
}
