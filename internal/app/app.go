package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"coupon-api/internal/config"
	"coupon-api/internal/logger"
	"coupon-api/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const readHeaderTimeout = 5 * time.Second

type App struct {
	httpServer    *http.Server
	metricsServer *http.Server
	cleanup       func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}

	router, cleanup, err := setupHTTP(ctx, cfg, registerer)
	if err != nil {
		return nil, err
	}

	a := &App{
		httpServer: newHTTPServer(cfg.Application.Addr(), router),
		cleanup:    cleanup,
	}

	if reg != nil {
		a.metricsServer = metrics.NewServer(cfg.Metrics.Addr, reg)
	}

	return a, nil
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Run blocks until the HTTP server stops. A graceful shutdown is not an error.
func (a *App) Run() error {
	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", map[string]any{
					"error": err.Error(),
				})
			}
		}()
	}

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
