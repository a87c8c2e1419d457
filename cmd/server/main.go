package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	catalogapp "github.com/sarva/backend/internal/application/catalog"
	partnerapp "github.com/sarva/backend/internal/application/partner"
	reportapp "github.com/sarva/backend/internal/application/report"
	tradeapp "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/infrastructure/auth"
	"github.com/sarva/backend/internal/infrastructure/config"
	"github.com/sarva/backend/internal/infrastructure/logger"
	"github.com/sarva/backend/internal/infrastructure/persistence"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"github.com/sarva/backend/internal/infrastructure/telemetry"
	"github.com/sarva/backend/internal/interfaces/http/handler"
	"github.com/sarva/backend/internal/interfaces/http/middleware"
	"github.com/sarva/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Sarva backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Installed globally before the database opens so otelgorm's pool metrics are exported.
	mp, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	lp, err := telemetry.NewLoggerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if provider := lp.Provider(); provider != nil {
		logCfg.OTelProvider = provider
		logCfg.ServiceName = cfg.Telemetry.ServiceName
		if log, err = logger.New(logCfg); err != nil {
			panic("Failed to initialize bridged logger: " + err.Error())
		}
		log.Info("Logs mirrored to the OpenTelemetry collector")
	}
	defer func() {
		if err := lp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	businessMetrics, err := telemetry.NewBusinessMetrics(mp.Meter("sarva.business"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold),
		logger.WithParameterizedQueries(cfg.App.IsProduction()),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if stats, err := db.Stats(); err == nil {
		log.Info("Database connected",
			zap.Int("max_open_connections", stats.MaxOpenConnections),
			zap.Int("open_connections", stats.OpenConnections),
		)
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.NewDBTracing(cfg.Telemetry, cfg.Database, log).Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	if cfg.Database.AutoMigrate {
		if err := db.DB.AutoMigrate(models.All()...); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema migrated from models")
	}

	scope := persistence.NewGormTransactionScope(db.DB)
	clock := shared.SystemClock{}

	companyService := catalogapp.NewCompanyService(scope, clock, log)
	cycleService := catalogapp.NewCycleService(scope, clock, log)
	productService := catalogapp.NewProductService(scope, clock, log)
	deletionService := tradeapp.NewDeletionService(scope, clock, log)
	customerService := partnerapp.NewCustomerService(scope, deletionService, clock, log)
	saleService := tradeapp.NewSaleService(scope, clock, log)
	orderService := tradeapp.NewOrderService(scope, clock, log)
	saleService.SetBusinessMetrics(businessMetrics)
	orderService.SetBusinessMetrics(businessMetrics)
	deletionService.SetBusinessMetrics(businessMetrics)
	profitReportService := reportapp.NewProfitReportService(scope, log)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		JWTService:     auth.NewJWTService(cfg.JWT),
		HeaderFallback: cfg.JWT.HeaderFallback,
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Metrics:        mp,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		Company:  handler.NewCompanyHandler(companyService),
		Cycle:    handler.NewCycleHandler(cycleService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Sale:     handler.NewSaleHandler(saleService, deletionService),
		Order:    handler.NewOrderHandler(orderService, deletionService),
		Report:   handler.NewReportHandler(profitReportService),
		Health:   handler.NewHealthHandler(db),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	if cfg.JWT.HeaderFallback {
		log.Warn("X-User-ID header fallback is enabled; do not expose this server publicly")
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
