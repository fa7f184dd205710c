package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/domain/runtime"
	"github.com/qrave1/markcollab/internal/infra/appctx"
	"github.com/qrave1/markcollab/internal/usecase"
)

const SessionCookieName = "markcollab_session"

// Session загружает сессию по cookie и кладёт её в контекст запроса.
// Перед записью заголовков ответа сессия сохраняется, а cookie обновляется.
func Session(sessionUsecase usecase.SessionUsecase, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			var id string
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				id = cookie.Value
			}

			s, err := sessionUsecase.Load(ctx, id)
			if err != nil {
				slog.Error("load session", slog.Any(constant.Error, err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
			}

			c.SetRequest(c.Request().WithContext(appctx.WithSession(ctx, s)))

			c.Response().Before(func() {
				commitSession(c, sessionUsecase, s, secure)
			})

			return next(c)
		}
	}
}

func commitSession(c echo.Context, sessionUsecase usecase.SessionUsecase, s *runtime.Session, secure bool) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	if s.Destroyed() {
		cookie.MaxAge = -1
		c.SetCookie(cookie)
		return
	}

	// пустую анонимную сессию не сохраняем
	if s.IsNew() && len(s.Values) == 0 {
		return
	}

	err := sessionUsecase.Commit(c.Request().Context(), s)
	if errors.Is(err, runtime.ErrSessionNotFound) {
		// сессию удалили, пока запрос выполнялся
		slog.Debug("session gone before commit", slog.String(constant.SessionID, s.ID))

		cookie.MaxAge = -1
		c.SetCookie(cookie)
		return
	}

	if err != nil {
		slog.Error(
			"commit session",
			slog.Any(constant.Error, err),
			slog.String(constant.SessionID, s.ID),
		)
		return
	}

	cookie.Value = s.ID
	cookie.MaxAge = int(sessionUsecase.IdleTimeout().Seconds())
	c.SetCookie(cookie)
}
