package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/markcollab/internal/infra/appctx"
)

// AccessGate пропускает только аутентифицированные сессии.
// Пути из publicPaths и вложенные в них доступны без пароля.
func AccessGate(loginPath string, publicPaths ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isPublicPath(c.Request().URL.Path, publicPaths) {
				return next(c)
			}

			if s, ok := appctx.Session(c.Request().Context()); ok && s.IsAuthenticated() {
				return next(c)
			}

			return c.Redirect(http.StatusFound, loginPath)
		}
	}
}

// isPublicPath сравнивает по границе сегмента: /login и /login/x совпадают, /loginx нет
func isPublicPath(path string, publicPaths []string) bool {
	for _, prefix := range publicPaths {
		if strings.EqualFold(path, prefix) {
			return true
		}

		if len(path) > len(prefix) && strings.EqualFold(path[:len(prefix)], prefix) && path[len(prefix)] == '/' {
			return true
		}
	}

	return false
}
