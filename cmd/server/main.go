package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"coupon-api/internal/app"
	"coupon-api/internal/config"
	"coupon-api/internal/logger"

	"github.com/gin-gonic/gin"
)

const configDir = "configuration"

func main() {
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Fatal("failed to load configuration", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Format == "console",
		Service: "coupon-api",
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatal("http server failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	logger.Info("coupon-api started", map[string]any{
		"addr":        cfg.Application.Addr(),
		"environment": cfg.Environment,
		"metrics":     cfg.Metrics.Enabled,
	})

	<-ctx.Done()

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Application.ShutdownTimeout,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("coupon-api stopped cleanly", nil)
}
