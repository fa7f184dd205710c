package memory

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count     int64
	expiresAt time.Time
}

// WindowCounter счётчики окон ограничителя частоты в памяти процесса
type WindowCounter struct {
	windows map[string]*window

	now func() time.Time
	mu  sync.Mutex
}

func NewWindowCounter() *WindowCounter {
	return &WindowCounter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (c *WindowCounter) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	w, ok := c.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		w = &window{expiresAt: now.Add(ttl)}
		c.windows[key] = w
	}

	w.count++

	return w.count, nil
}

// Sweep удаляет истёкшие окна и возвращает их количество
func (c *WindowCounter) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0

	for key, w := range c.windows {
		if !now.Before(w.expiresAt) {
			delete(c.windows, key)
			removed++
		}
	}

	return removed
}
