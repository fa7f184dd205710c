package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/markcollab/internal/application/metric"
)

// Sender принимающая сторона соединения. *websocket.Conn удовлетворяет интерфейсу.
type Sender interface {
	WriteJSON(v any) error
}

// WebsocketConnectionRepository интерфейс для работы с активными соединениями в памяти
type WebsocketConnectionRepository interface {
	Add(uuid.UUID, Sender)
	Remove(uuid.UUID)

	Write(uuid.UUID, any) error
	Count() int
}

type safeWS struct {
	conn Sender
	mu   sync.Mutex
}

type wsConnectionRepository struct {
	// wsConns хранит map[conn_id]*ws.conn
	wsConns map[uuid.UUID]*safeWS

	mu sync.RWMutex
}

func NewWSConnectionRepository() WebsocketConnectionRepository {
	return &wsConnectionRepository{
		wsConns: make(map[uuid.UUID]*safeWS, 10),
	}
}

func (w *wsConnectionRepository) Add(connID uuid.UUID, conn Sender) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.wsConns[connID]; !exists {
		metric.IncrementWSActiveConnections()
	}

	w.wsConns[connID] = &safeWS{conn: conn}
}

func (w *wsConnectionRepository) Remove(connID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.wsConns[connID]; exists {
		delete(w.wsConns, connID)

		metric.DecrementWSActiveConnections()
	}
}

// Write сериализует запись в одно соединение. Отсутствующее соединение не считается ошибкой.
func (w *wsConnectionRepository) Write(connID uuid.UUID, payload any) error {
	safews, ok := w.getSafeWS(connID)
	if !ok {
		return nil
	}

	safews.mu.Lock()
	defer safews.mu.Unlock()

	if err := safews.conn.WriteJSON(payload); err != nil {
		return fmt.Errorf("write to websocket: %w", err)
	}

	return nil
}

func (w *wsConnectionRepository) getSafeWS(connID uuid.UUID) (*safeWS, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	conn, ok := w.wsConns[connID]
	return conn, ok
}

func (w *wsConnectionRepository) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.wsConns)
}
