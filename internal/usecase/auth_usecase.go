package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/qrave1/markcollab/internal/application/metric"
	"github.com/qrave1/markcollab/internal/domain/runtime"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthUsecase проверка общего пароля сайта
type AuthUsecase interface {
	Login(ctx context.Context, session *runtime.Session, password string) error
	Logout(ctx context.Context, session *runtime.Session) error
}

type authUsecase struct {
	// passwordHash bcrypt-хеш пароля сайта, вычисляется при старте
	passwordHash []byte

	sessionUsecase SessionUsecase
}

// NewAuthUsecase хеширует пароль сайта. bcrypt не принимает пароли длиннее 72 байт.
func NewAuthUsecase(sitePassword string, cost int, sessionUsecase SessionUsecase) (AuthUsecase, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(sitePassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash site password: %w", err)
	}

	return &authUsecase{
		passwordHash:   hash,
		sessionUsecase: sessionUsecase,
	}, nil
}

func (uc *authUsecase) Login(ctx context.Context, session *runtime.Session, password string) error {
	if err := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(password)); err != nil {
		metric.IncrementLoginAttempts(false)
		return ErrInvalidCredentials
	}

	metric.IncrementLoginAttempts(true)

	// защита от фиксации сессии
	if err := uc.sessionUsecase.Regenerate(ctx, session); err != nil {
		return fmt.Errorf("regenerate session: %w", err)
	}

	session.MarkAuthenticated()

	return nil
}

func (uc *authUsecase) Logout(ctx context.Context, session *runtime.Session) error {
	return uc.sessionUsecase.Destroy(ctx, session)
}
