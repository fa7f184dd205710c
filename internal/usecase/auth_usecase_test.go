package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrave1/markcollab/internal/infra/adapters/memory"
)

func newTestAuth(t *testing.T, password string) (AuthUsecase, SessionUsecase) {
	t.Helper()

	sessions := NewSessionUsecase(memory.NewSessionRepository(), time.Hour)

	auth, err := NewAuthUsecase(password, bcrypt.MinCost, sessions)
	require.NoError(t, err)

	return auth, sessions
}

func TestLoginSuccessRegeneratesSession(t *testing.T) {
	ctx := context.Background()
	auth, sessions := newTestAuth(t, "s3cret")

	s, err := sessions.Load(ctx, "")
	require.NoError(t, err)
	require.NoError(t, sessions.Commit(ctx, s))
	before := s.ID

	require.NoError(t, auth.Login(ctx, s, "s3cret"))

	assert.True(t, s.IsAuthenticated())
	assert.NotEqual(t, before, s.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	auth, sessions := newTestAuth(t, "s3cret")

	s, err := sessions.Load(ctx, "")
	require.NoError(t, err)

	for _, password := range []string{"", "S3cret", "s3cret ", "s3cre"} {
		err = auth.Login(ctx, s, password)
		assert.ErrorIs(t, err, ErrInvalidCredentials, password)
		assert.False(t, s.IsAuthenticated())
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	auth, sessions := newTestAuth(t, "s3cret")

	s, err := sessions.Load(ctx, "")
	require.NoError(t, err)
	require.NoError(t, auth.Login(ctx, s, "s3cret"))
	require.NoError(t, sessions.Commit(ctx, s))

	require.NoError(t, auth.Logout(ctx, s))

	loaded, err := sessions.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsAuthenticated())
}

func TestNewAuthUsecaseRejectsOverlongPassword(t *testing.T) {
	_, err := NewAuthUsecase(strings.Repeat("x", 73), bcrypt.MinCost, nil)
	assert.Error(t, err)
}
