package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/qrave1/markcollab/internal/application/config"
	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/infra/ports/http/handlers"
	"github.com/qrave1/markcollab/internal/infra/ports/http/middleware"
	"github.com/qrave1/markcollab/internal/usecase"
)

const (
	LoginPath        = "/login"
	AuthenticatePath = "/authenticate"
	LogoutPath       = "/logout"
	HubPath          = "/diagramhub"
)

type Deps struct {
	SessionUsecase usecase.SessionUsecase
	AbuseUsecase   usecase.AbuseUsecase

	AuthHandler *handlers.AuthHandler
	RoomHandler *handlers.RoomHandler
	WSHandler   *handlers.WebSocketHandler

	Renderer echo.Renderer
}

func New(cfg *config.Config, deps Deps) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.Renderer = deps.Renderer
	e.IPExtractor = ipExtractor(cfg)

	e.Use(echomw.Recover())
	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())
	e.Use(middleware.Session(deps.SessionUsecase, !cfg.Debug))
	e.Use(middleware.AccessGate(LoginPath, LoginPath, AuthenticatePath, LogoutPath))

	csrf := echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   !cfg.Debug,
		CookieSameSite: http.SameSiteLaxMode,
	})
	loginLimit := middleware.RateLimit(deps.AbuseUsecase, usecase.LoginPolicy)

	e.GET(LoginPath, deps.AuthHandler.LoginPage, csrf)
	e.POST(LoginPath, deps.AuthHandler.Login, loginLimit, csrf)
	e.POST(AuthenticatePath, deps.AuthHandler.Login, loginLimit, csrf)
	e.GET(LogoutPath, deps.AuthHandler.Logout)

	e.GET("/", deps.RoomHandler.Index)
	e.GET("/room", deps.RoomHandler.RoomPage)
	e.GET("/room/:code", deps.RoomHandler.RoomPage)

	api := e.Group("/api")
	{
		api.POST("/rooms/create", deps.RoomHandler.CreateRoom, middleware.RateLimit(deps.AbuseUsecase, usecase.CreateRoomPolicy))
	}

	e.GET(HubPath, deps.WSHandler.Handle)

	e.Static("/static", cfg.StaticDir)

	return e
}

// ipExtractor без доверенных прокси берёт адрес соединения,
// иначе X-Forwarded-For, но только за перечисленными прокси
func ipExtractor(cfg *config.Config) echo.IPExtractor {
	nets, err := cfg.TrustedProxyNets()
	if err != nil {
		slog.Warn("ignoring trusted proxies", slog.Any(constant.Error, err))
		return echo.ExtractIPDirect()
	}

	if len(nets) == 0 {
		return echo.ExtractIPDirect()
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range nets {
		options = append(options, echo.TrustIPRange(n))
	}

	return echo.ExtractIPFromXFFHeader(options...)
}
