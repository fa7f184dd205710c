package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/infra/appctx"
	"github.com/qrave1/markcollab/internal/infra/ports/http/dto"
	"github.com/qrave1/markcollab/internal/infra/ports/http/views"
	"github.com/qrave1/markcollab/internal/usecase"
)

const invalidPasswordMessage = "Incorrect password. Please try again."

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, views.Login, views.LoginData{CSRFToken: csrfToken(c)})
}

func (h *AuthHandler) Login(c echo.Context) error {
	session, ok := appctx.Session(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "session unavailable"})
	}

	err := h.authUsecase.Login(c.Request().Context(), session, c.FormValue("password"))
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		slog.Info("invalid site password", slog.String(constant.ClientIP, c.RealIP()))

		return c.Render(http.StatusOK, views.Login, views.LoginData{
			CSRFToken:    csrfToken(c),
			ErrorMessage: invalidPasswordMessage,
		})
	}

	if err != nil {
		slog.Error("login failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not log in"})
	}

	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if session, ok := appctx.Session(c.Request().Context()); ok {
		if err := h.authUsecase.Logout(c.Request().Context(), session); err != nil {
			slog.Error("logout failed", slog.Any(constant.Error, err))
		}
	}

	return c.Redirect(http.StatusFound, "/login")
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get(echomw.DefaultCSRFConfig.ContextKey).(string)
	return token
}
