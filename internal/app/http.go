package app

import (
	"context"
	"net/http"

	"coupon-api/internal/auth/credentials"
	"coupon-api/internal/auth/handler"
	"coupon-api/internal/config"
	"coupon-api/internal/coupon"
	"coupon-api/internal/metrics"
	"coupon-api/internal/middleware"
	"coupon-api/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the stateful collaborators the router is built from.
type Deps struct {
	Sessions session.Store
	Coupons  coupon.Repository
	Registry prometheus.Registerer
}

func setupHTTP(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	router, err := newRouter(cfg, Deps{
		Sessions: session.NewRedisStore(infra.Redis.Client, cfg.Redis.KeyPrefix, cfg.Redis.OpTimeout),
		Coupons:  coupon.NewPostgresRepository(infra.DB),
		Registry: reg,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

func newRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {

	// ----------------------------
	// Dependencies
	// ----------------------------

	var m *metrics.Metrics
	if deps.Registry != nil {
		m = metrics.New(deps.Registry)
	}

	sessionStore := metrics.InstrumentStore(deps.Sessions, m)

	keyMatcher, err := newKeyMatcher(cfg.Auth)
	if err != nil {
		return nil, err
	}

	issuer := credentials.NewIssuer(keyMatcher, sessionStore, cfg.Auth.SessionTTL, m)
	authHandler := handler.NewHandler(issuer)
	authMiddleware := middleware.NewAuthMiddleware(sessionStore, m)
	couponHandler := coupon.NewHandler(deps.Coupons)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	// ----------------------------
	// Public Routes
	// ----------------------------

	router.GET("/health_check", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	authHandler.RegisterRoutes(router)

	// ----------------------------
	// Protected Routes
	// ----------------------------

	api := router.Group("/")
	api.Use(middleware.GinRequireSession(authMiddleware))

	couponHandler.RegisterRoutes(api)

	return router, nil
}

func newKeyMatcher(cfg config.AuthConfig) (credentials.KeyMatcher, error) {
	if cfg.APIKeyHashed {
		return credentials.HashedKey(cfg.APIKey.Expose())
	}
	return credentials.PlainKey(cfg.APIKey.Expose()), nil
}
