package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sarva/backend/internal/infrastructure/auth"
	"github.com/sarva/backend/internal/infrastructure/logger"
	"github.com/sarva/backend/internal/infrastructure/telemetry"
	"github.com/sarva/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// EngineConfig holds what the middleware chain needs
type EngineConfig struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	HeaderFallback bool
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	Tracing        middleware.TracingConfig
	Metrics        *telemetry.MeterProvider
	TrustedProxies []string
}

// NewEngine builds the gin engine with the global middleware chain and every route.
// Caller identity is only resolved inside /api/v1.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.HTTPMetrics(cfg.Metrics, log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.GET("/health", h.Health.Check)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.Identity(middleware.IdentityConfig{
			JWTService:     cfg.JWTService,
			HeaderFallback: cfg.HeaderFallback,
			Logger:         log,
		}),
		middleware.SpanAttributes(),
	)
	r.Register(DomainGroups(h)...)
	r.Setup()

	return engine, nil
}
