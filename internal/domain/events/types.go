package events

import (
	"encoding/json"
)

// Входящие типы сообщений
const (
	TypeJoin   = "join"
	TypeUpdate = "update"
	TypeReset  = "reset"
	TypePing   = "ping"
)

// Исходящие типы сообщений
const (
	TypeLoadDiagram    = "LoadDiagram"
	TypeDiagramUpdated = "DiagramUpdated"
	TypePong           = "pong"
)

// Message - общее событие
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinEvent - подключение к комнате
type JoinEvent struct {
	RoomCode string `json:"roomCode"`
}

// UpdateEvent - новое содержимое документа целиком
type UpdateEvent struct {
	RoomCode string `json:"roomCode"`
	Content  string `json:"content"`
}

// ResetEvent - сброс документа к содержимому по умолчанию
type ResetEvent struct {
	RoomCode string `json:"roomCode"`
}

// DiagramEvent - содержимое документа, отправляемое клиенту
type DiagramEvent struct {
	Content string `json:"content"`
}

// NewMessage упаковывает data в конверт Message
func NewMessage(msgType string, data any) (*Message, error) {
	if data == nil {
		return &Message{Type: msgType}, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{Type: msgType, Data: raw}, nil
}
