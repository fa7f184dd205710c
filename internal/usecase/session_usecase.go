package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/markcollab/internal/domain/runtime"
)

// SessionRepository хранилище серверных сессий
type SessionRepository interface {
	// Get возвращает runtime.ErrSessionNotFound для отсутствующей или просроченной сессии
	Get(ctx context.Context, id string) (*runtime.Session, error)
	Save(ctx context.Context, session *runtime.Session, ttl time.Duration) error
	// Refresh продлевает существующую запись, для отсутствующей возвращает runtime.ErrSessionNotFound
	Refresh(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type SessionUsecase interface {
	// Load возвращает сохранённую сессию или новую, ещё не сохранённую
	Load(ctx context.Context, id string) (*runtime.Session, error)
	// Commit сохраняет изменённую сессию и продлевает срок простоя.
	// Неизменённая сессия только продлевается; если её запись уже удалена,
	// возвращается runtime.ErrSessionNotFound.
	Commit(ctx context.Context, session *runtime.Session) error
	// Regenerate выдаёт сессии новый идентификатор, удаляя прежнюю запись
	Regenerate(ctx context.Context, session *runtime.Session, keep ...string) error
	Destroy(ctx context.Context, session *runtime.Session) error

	IdleTimeout() time.Duration
}

type sessionUsecase struct {
	sessionRepo SessionRepository
	idleTimeout time.Duration

	now   func() time.Time
	newID func() string
}

func NewSessionUsecase(sessionRepo SessionRepository, idleTimeout time.Duration) SessionUsecase {
	return &sessionUsecase{
		sessionRepo: sessionRepo,
		idleTimeout: idleTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (uc *sessionUsecase) Load(ctx context.Context, id string) (*runtime.Session, error) {
	if id == "" {
		return runtime.NewSession(uc.newID()), nil
	}

	session, err := uc.sessionRepo.Get(ctx, id)
	if errors.Is(err, runtime.ErrSessionNotFound) {
		return runtime.NewSession(uc.newID()), nil
	}

	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(uc.now()) {
		return runtime.NewSession(uc.newID()), nil
	}

	return session, nil
}

func (uc *sessionUsecase) Commit(ctx context.Context, session *runtime.Session) error {
	if !session.IsNew() && !session.IsModified() {
		// запись могла быть удалена параллельным выходом, перезаписывать её нельзя
		if err := uc.sessionRepo.Refresh(ctx, session.ID, uc.idleTimeout); err != nil {
			return fmt.Errorf("refresh session: %w", err)
		}

		session.Touch(uc.now().Add(uc.idleTimeout))

		return nil
	}

	if err := uc.sessionRepo.Save(ctx, session, uc.idleTimeout); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	session.Touch(uc.now().Add(uc.idleTimeout))

	return nil
}

func (uc *sessionUsecase) Regenerate(ctx context.Context, session *runtime.Session, keep ...string) error {
	wasNew := session.IsNew()

	old := session.Rotate(uc.newID(), keep...)

	if wasNew {
		return nil
	}

	if err := uc.sessionRepo.Delete(ctx, old); err != nil {
		return fmt.Errorf("delete old session: %w", err)
	}

	return nil
}

func (uc *sessionUsecase) Destroy(ctx context.Context, session *runtime.Session) error {
	session.Destroy()

	if err := uc.sessionRepo.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (uc *sessionUsecase) IdleTimeout() time.Duration {
	return uc.idleTimeout
}
