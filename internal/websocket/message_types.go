package websocket

// Типы событий ленты попыток
const (
	// EventAttemptRecorded сообщает о сохранённом ответе игрока
	EventAttemptRecorded = "attempt:recorded"

	// EventServerError сообщает клиенту об ошибке обработки его сообщения
	EventServerError = "server:error"

	// EventFeedPing и EventFeedPong используются клиентом для проверки соединения
	EventFeedPing = "feed:ping"
	EventFeedPong = "feed:pong"

	// EventFeedWelcome отправляется сразу после подключения
	EventFeedWelcome = "feed:welcome"
)
