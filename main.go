package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/cron"
	"github.com/meinhoongagan/home-services/db"
	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/redis"
	"github.com/meinhoongagan/home-services/routes"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/storage"
	"github.com/meinhoongagan/home-services/storage/memory"
	"github.com/meinhoongagan/home-services/storage/postgres"
	"github.com/meinhoongagan/home-services/utils"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	stg, err := openStorage(cfg, log)
	if err != nil {
		log.Error("failed to open storage", logger.String("storage", cfg.Storage), logger.Error(err))
		os.Exit(1)
	}
	defer stg.Close()

	cache := redis.New(cfg, log)
	defer cache.Close()

	svc := services.New(stg, log, utils.NewMailer(cfg, log), utils.NewUploader(cfg, log), cache)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Seed(seedCtx, stg, cfg, log); err != nil {
		cancel()
		log.Error("failed to seed data", logger.Error(err))
		os.Exit(1)
	}
	cancel()

	scheduler, err := cron.StartCronJobs(cfg, svc, log)
	if err != nil {
		log.Error("failed to start cron jobs", logger.Error(err))
		os.Exit(1)
	}

	app := routes.NewApp(cfg, svc, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	err = serve(app, fmt.Sprintf(":%d", cfg.AppPort), quit, log)
	<-scheduler.Stop().Done()
	if err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

// serve runs app until a signal arrives on quit or Listen fails.
func serve(app *fiber.App, addr string, quit <-chan os.Signal, log logger.ILogger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Info("server starting", logger.String("addr", addr))
		listenErr <- app.Listen(addr)
	}()

	select {
	case sig := <-quit:
		log.Info("shutting down", logger.String("signal", sig.String()))
	case err := <-listenErr:
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return app.ShutdownWithContext(ctx)
}

func openStorage(cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	switch cfg.Storage {
	case "memory":
		log.Warning("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	case "postgres":
		gdb, err := db.Init(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(gdb); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return postgres.New(gdb), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
