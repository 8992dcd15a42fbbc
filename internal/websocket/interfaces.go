package websocket

// HubInterface описывает хаб, которым пользуется Manager
type HubInterface interface {
	// BroadcastJSON отправляет структуру JSON всем локальным клиентам
	BroadcastJSON(v interface{}) error

	// BroadcastBytes отправляет готовое сообщение всем локальным клиентам
	BroadcastBytes(message []byte)

	// SendJSONToClient отправляет структуру JSON одному соединению
	SendJSONToClient(connectionID string, v interface{}) error

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
