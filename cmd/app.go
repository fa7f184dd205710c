package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/qrave1/markcollab/internal/application/config"
	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/application/metric"
	"github.com/qrave1/markcollab/internal/domain/roomcode"
	"github.com/qrave1/markcollab/internal/infra/adapters/memory"
	"github.com/qrave1/markcollab/internal/infra/adapters/postgres"
	"github.com/qrave1/markcollab/internal/infra/adapters/postgres/repository"
	"github.com/qrave1/markcollab/internal/infra/adapters/redis"
	"github.com/qrave1/markcollab/internal/infra/ports/http/handlers"
	"github.com/qrave1/markcollab/internal/infra/ports/http/server"
	"github.com/qrave1/markcollab/internal/infra/ports/http/views"
	"github.com/qrave1/markcollab/internal/infra/scheduler"
	"github.com/qrave1/markcollab/internal/usecase"
)

func runApp(configPath string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.New(configPath)
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: level},
			),
		),
	)

	dsn, err := cfg.Database.ConnectionString()
	if err != nil {
		slog.Error("parse database connection string", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	var roomRepo usecase.RoomRepository

	if dsn != "" {
		dbConn, err := postgres.NewPostgres(ctx, dsn)
		if err != nil {
			slog.Error("connect to postgres", slog.Any(constant.Error, err))
			os.Exit(1)
		}
		defer dbConn.Close()

		if err = postgres.Migrate(ctx, dbConn); err != nil {
			slog.Error("migrate postgres", slog.Any(constant.Error, err))
			os.Exit(1)
		}

		roomRepo = repository.NewRoomRepo(dbConn)
	} else {
		slog.Warn("database is not configured, rooms are kept in memory")

		roomRepo = memory.NewRoomRepository()
	}

	var (
		sessionRepo   usecase.SessionRepository
		windowCounter usecase.WindowCounter
		sweepTargets  = make(map[string]scheduler.Sweepable)
	)

	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("connect to redis", slog.Any(constant.Error, err))
			os.Exit(1)
		}
		defer redisClient.Close()

		sessionRepo = redis.NewSessionRepository(redisClient)
		windowCounter = redis.NewWindowCounter(redisClient)
	} else {
		memSessions := memory.NewSessionRepository()
		memWindows := memory.NewWindowCounter()

		sessionRepo = memSessions
		windowCounter = memWindows

		sweepTargets["sessions"] = memSessions
		sweepTargets["rate_windows"] = memWindows
	}

	sweeper := scheduler.NewSweeper(sweepTargets)
	if err = sweeper.Start(scheduler.SweepSchedule); err != nil {
		slog.Error("start sweeper", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer sweeper.Stop()

	wsConnRepo := memory.NewWSConnectionRepository()
	groupRepo := memory.NewGroupRepository()

	roomUsecase := usecase.NewRoomUsecase(roomRepo, roomcode.NewGenerator(roomcode.RandomSource))
	diagramUsecase := usecase.NewDiagramUsecase(roomUsecase, groupRepo, wsConnRepo)
	sessionUsecase := usecase.NewSessionUsecase(sessionRepo, cfg.SessionIdleTimeout)
	abuseUsecase := usecase.NewAbuseUsecase(windowCounter)

	authUsecase, err := usecase.NewAuthUsecase(cfg.SitePassword, bcrypt.DefaultCost, sessionUsecase)
	if err != nil {
		slog.Error("init auth", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		slog.Error("load templates", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	echoSrv := server.New(cfg, server.Deps{
		SessionUsecase: sessionUsecase,
		AbuseUsecase:   abuseUsecase,
		AuthHandler:    handlers.NewAuthHandler(authUsecase),
		RoomHandler:    handlers.NewRoomHandler(roomUsecase, server.HubPath),
		WSHandler:      handlers.NewWebSocketHandler(cfg, diagramUsecase, wsConnRepo),
		Renderer:       renderer,
	})

	metricsSrv := metric.NewServer()

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	// Запускаем HTTP сервер
	go func() {
		slog.Info("HTTP server starting", slog.String("port", cfg.Port))
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	// Запускаем сервер метрик
	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricPort)
	}()

	// Ожидаем сигнал завершения или ошибку сервера
	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	case err := <-metricsSrvCh:
		slog.Error(
			"Metrics server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	}

	// Graceful shutdown
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}
}
