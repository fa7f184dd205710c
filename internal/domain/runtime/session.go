package runtime

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	// AuthenticatedKey ключ сессии, означающий пройденную проверку пароля
	AuthenticatedKey   = "Authenticated"
	AuthenticatedValue = "true"
)

// Session серверная сессия клиента. Идентификатор хранится в cookie,
// значения только на сервере.
type Session struct {
	ID        string            `json:"id"`
	Values    map[string]string `json:"values"`
	ExpiresAt time.Time         `json:"expires_at"`

	isNew     bool
	modified  bool
	destroyed bool
}

func NewSession(id string) *Session {
	return &Session{
		ID:     id,
		Values: make(map[string]string),
		isNew:  true,
	}
}

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}

	s.Values[key] = value
	s.modified = true
}

func (s *Session) IsAuthenticated() bool {
	v, ok := s.Get(AuthenticatedKey)
	return ok && v == AuthenticatedValue
}

func (s *Session) MarkAuthenticated() {
	s.Set(AuthenticatedKey, AuthenticatedValue)
}

// Expired сообщает, истёк ли срок простоя сессии
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsNew true, пока сессия не была сохранена в хранилище
func (s *Session) IsNew() bool {
	return s.isNew
}

// IsModified true, если значения менялись после загрузки или последнего сохранения
func (s *Session) IsModified() bool {
	return s.modified
}

func (s *Session) Destroyed() bool {
	return s.destroyed
}

// Rotate выдаёт сессии новый идентификатор, сохраняя только значения keep.
// Возвращает прежний идентификатор.
func (s *Session) Rotate(id string, keep ...string) string {
	old := s.ID

	values := make(map[string]string, len(keep))
	for _, key := range keep {
		if v, ok := s.Values[key]; ok {
			values[key] = v
		}
	}

	s.ID = id
	s.Values = values
	s.isNew = true
	s.modified = true
	s.destroyed = false

	return old
}

// Touch продлевает сессию после сохранения или загрузки
func (s *Session) Touch(expiresAt time.Time) {
	s.ExpiresAt = expiresAt
	s.isNew = false
	s.modified = false
}

func (s *Session) Destroy() {
	s.Values = make(map[string]string)
	s.modified = true
	s.destroyed = true
}
