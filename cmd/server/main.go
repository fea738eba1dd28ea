package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-registration/internal/config"
	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/handler"
	"github.com/iliyamo/event-registration/internal/middleware"
	"github.com/iliyamo/event-registration/internal/queue"
	"github.com/iliyamo/event-registration/internal/repository"
	"github.com/iliyamo/event-registration/internal/router"
	"github.com/iliyamo/event-registration/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	schema := database.Bootstrapper{DB: db, Dialect: dialect}
	if cfg.DBBootstrap {
		if err := schema.CreateTables(ctx); err != nil {
			return err
		}
	}

	eventRepo := repository.NewEventRepo(db)
	regOpts := []service.Option{
		service.WithCapacityEnforcement(cfg.EnforceCapacity),
		service.WithLogger(logger),
	}
	if cfg.NotifyEnabled {
		pub := queue.NewPublisher(cfg.RabbitURL)
		defer pub.Close()
		regOpts = append(regOpts, service.WithNotifier(pub))
	}
	regSvc := service.NewRegistrationService(eventRepo, repository.NewRegistrationRepo(db), regOpts...)
	catSvc := service.NewCatalogService(eventRepo, repository.NewUserRepo(db), schema)

	if cfg.ConsumerEnabled {
		go func() {
			err := queue.Consume(ctx, cfg.RabbitURL, queue.NewAuditLog(cfg.AuditLogPath), logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("registration consumer stopped", "error", err)
			}
		}()
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		logger.Info("redis unavailable; caching and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger(logger))
	router.RegisterRoutes(e, router.Deps{
		Health:        &handler.HealthHandler{DB: db},
		Registrations: handler.NewRegistrationHandler(regSvc, logger),
		Catalog:       handler.NewCatalogHandler(catSvc, logger),
		Cache:         middleware.NewRedisCache(cfg.Cache, rdb),
		RateLimit:     middleware.NewTokenBucket(cfg.RateLimit, rdb),
		Evictor:       middleware.NewCacheEvictor(cfg.Cache, rdb, logger),
	})

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env, "db", string(dialect))

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
