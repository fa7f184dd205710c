package usecase

import (
	"context"
	"fmt"
	"time"
)

// WindowCounter счётчики фиксированных окон
type WindowCounter interface {
	// Incr увеличивает счётчик key и возвращает новое значение.
	// Новый счётчик живёт ttl.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Policy ограничение частоты: не более Limit запросов за Window
type Policy struct {
	Name   string
	Limit  int64
	Window time.Duration
}

var (
	LoginPolicy      = Policy{Name: "login", Limit: 5, Window: time.Minute}
	CreateRoomPolicy = Policy{Name: "create_room", Limit: 10, Window: time.Minute}
)

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

type AbuseUsecase interface {
	Allow(ctx context.Context, policy Policy, clientID string) (Decision, error)
}

type abuseUsecase struct {
	counter WindowCounter

	now func() time.Time
}

func NewAbuseUsecase(counter WindowCounter) AbuseUsecase {
	return &abuseUsecase{
		counter: counter,
		now:     time.Now,
	}
}

func (uc *abuseUsecase) Allow(ctx context.Context, policy Policy, clientID string) (Decision, error) {
	now := uc.now()
	windowStart := now.Truncate(policy.Window)

	key := fmt.Sprintf("ratelimit:%s:%s:%d", policy.Name, clientID, windowStart.Unix())

	count, err := uc.counter.Incr(ctx, key, policy.Window)
	if err != nil {
		return Decision{Allowed: true}, fmt.Errorf("increment window counter: %w", err)
	}

	if count > policy.Limit {
		return Decision{RetryAfter: windowStart.Add(policy.Window).Sub(now)}, nil
	}

	return Decision{Allowed: true}, nil
}
