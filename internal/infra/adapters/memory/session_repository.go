package memory

import (
	"context"
	"sync"
	"time"

	"github.com/qrave1/markcollab/internal/domain/runtime"
)

type sessionEntry struct {
	id        string
	values    map[string]string
	expiresAt time.Time
}

// SessionRepository хранит сессии в памяти процесса.
// Просроченные записи не возвращаются и удаляются в Sweep.
type SessionRepository struct {
	sessions map[string]sessionEntry

	now func() time.Time
	mu  sync.RWMutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

func (r *SessionRepository) Get(_ context.Context, id string) (*runtime.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[id]
	if !ok || !r.now().Before(entry.expiresAt) {
		return nil, runtime.ErrSessionNotFound
	}

	s := runtime.NewSession(entry.id)
	for k, v := range entry.values {
		s.Set(k, v)
	}
	s.Touch(entry.expiresAt)

	return s, nil
}

func (r *SessionRepository) Save(_ context.Context, s *runtime.Session, ttl time.Duration) error {
	values := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		values[k] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = sessionEntry{
		id:        s.ID,
		values:    values,
		expiresAt: r.now().Add(ttl),
	}

	return nil
}

// Refresh продлевает существующую сессию, не трогая значения
func (r *SessionRepository) Refresh(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	entry, ok := r.sessions[id]
	if !ok || !now.Before(entry.expiresAt) {
		return runtime.ErrSessionNotFound
	}

	entry.expiresAt = now.Add(ttl)
	r.sessions[id] = entry

	return nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)

	return nil
}

// Sweep удаляет просроченные сессии и возвращает их количество
func (r *SessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0

	for id, entry := range r.sessions {
		if !now.Before(entry.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed
}
