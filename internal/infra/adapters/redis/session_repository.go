package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/qrave1/markcollab/internal/domain/runtime"
)

const sessionKeyPrefix = "session:"

// SessionRepository хранит сессии в Redis, срок простоя задаётся TTL ключа
type SessionRepository struct {
	client *goredis.Client
}

func NewSessionRepository(client *goredis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

type sessionRecord struct {
	Values map[string]string `json:"values"`
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*runtime.Session, error) {
	key := sessionKeyPrefix + id

	pipe := r.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)

	_, err := pipe.Exec(ctx)
	if errors.Is(err, goredis.Nil) {
		return nil, runtime.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(getCmd.Val()), &record); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	s := runtime.NewSession(id)
	for k, v := range record.Values {
		s.Set(k, v)
	}

	if ttl := ttlCmd.Val(); ttl > 0 {
		s.Touch(time.Now().Add(ttl))
	} else {
		s.Touch(time.Time{})
	}

	return s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *runtime.Session, ttl time.Duration) error {
	raw, err := json.Marshal(sessionRecord{Values: s.Values})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+s.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Refresh продлевает TTL существующего ключа. EXPIRE не создаёт удалённый ключ заново.
func (r *SessionRepository) Refresh(ctx context.Context, id string, ttl time.Duration) error {
	ok, err := r.client.Expire(ctx, sessionKeyPrefix+id, ttl).Result()
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	if !ok {
		return runtime.ErrSessionNotFound
	}

	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
