package appctx

import (
	"context"

	"github.com/qrave1/markcollab/internal/domain/runtime"
)

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession добавляет сессию в контекст
func WithSession(ctx context.Context, s *runtime.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// Session извлекает сессию из контекста
func Session(ctx context.Context) (*runtime.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*runtime.Session)
	return s, ok && s != nil
}
