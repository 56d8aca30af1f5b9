package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/config"
	"github.com/iliyamo/da-dashboard/internal/database"
	"github.com/iliyamo/da-dashboard/internal/handler"
	"github.com/iliyamo/da-dashboard/internal/logger"
	"github.com/iliyamo/da-dashboard/internal/middleware"
	"github.com/iliyamo/da-dashboard/internal/queue"
	"github.com/iliyamo/da-dashboard/internal/repository"
	"github.com/iliyamo/da-dashboard/internal/router"
	"github.com/iliyamo/da-dashboard/internal/service"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "da-dashboard")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	db, dialect, err := database.Open(cfg.DB)
	if err != nil {
		lg.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		lg.Warn("redis unavailable; login rate limit and stats cache disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users := repository.NewDAUserRepo(db, dialect)
	creds := repository.NewCredentialRepo(db, dialect)
	stats := repository.NewStatsRepo(db)

	scopes := service.NewScopeCalculator(users, lg.Named("scope"))
	resolver := service.NewCredentialResolver(creds, cfg.WoredaAuthScheme, lg.Named("auth"))
	guard := service.NewMutationGuard(users, cfg.AllowPendingStatus)

	var events handler.EventPublisher
	if cfg.Events.Enabled {
		events = queue.NewPublisher(cfg.Events.RabbitMQURL)
		consumer := &queue.AuditConsumer{URL: cfg.Events.RabbitMQURL, Dir: cfg.Events.AuditLogDir, Log: lg.Named("audit")}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(lg.Named("http")))
	// Recover sits inside RequestLogger: recovered panics are logged as 500s.
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.Register(e, db, router.Handlers{
		Auth:    handler.NewAuthHandler(resolver, creds, cfg.TokenSecret, time.Duration(cfg.AccessTTLMin)*time.Minute, lg.Named("auth")),
		DAUsers: handler.NewDAUserHandler(users, scopes, guard, events, lg.Named("da_users")),
		Stats:   handler.NewStatsHandler(stats, users, scopes, lg.Named("stats")),
	}, cfg, rdb, lg)

	addr := ":" + cfg.Port
	go func() {
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db_driver", cfg.DB.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown failed", zap.Error(err))
	}
}
