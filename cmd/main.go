//	@title						Business Portal API
//	@version					1.0.0
//	@description				Tenant-scoped business profile storage for the restaurant portal.
//	@BasePath					/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "bizportal/docs"
	"bizportal/internal/caching"
	"bizportal/internal/config"
	"bizportal/internal/handlers"
	"bizportal/internal/jobs/background"
	"bizportal/internal/logger"
	"bizportal/internal/metrics"
	"bizportal/internal/middleware"
	"bizportal/internal/repositories"
	"bizportal/internal/services"
	"bizportal/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(registry)

	// Business record storage
	if err := os.MkdirAll(cfg.Storage.DataRoot, 0o755); err != nil {
		return fmt.Errorf("create data root %s: %w", cfg.Storage.DataRoot, err)
	}
	businessRepo := repositories.NewFileBusinessRepo(cfg.Storage.DataRoot, appMetrics)

	// Tenant config lookup
	var (
		configRepo repositories.TenantConfigRepository
		pool       *pgxpool.Pool
	)
	switch cfg.Storage.TenantConfigBackend {
	case config.TenantConfigBackendPostgres:
		var err error
		pool, err = database.NewPool(ctx, cfg.Storage.DatabaseURL, log)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		configRepo = repositories.NewPgTenantConfigRepo(pool)
	default:
		configRepo = repositories.NewFileTenantConfigRepo(cfg.Storage.DataRoot)
	}

	// Redis backs the rate limiter only
	var cacheSvc caching.CacheService
	if cfg.Redis.Addr != "" {
		cacheSvc = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		defer cacheSvc.Close()
	} else {
		log.Warn("REDIS_ADDR not set, rate limiting disabled")
	}

	// Object storage for backups
	var objectStorage services.ObjectStorage
	if cfg.BackupEnabled() {
		minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			return fmt.Errorf("initialize MinIO service: %w", err)
		}
		if err := minioSvc.EnsureBucketExists(ctx, cfg.Backup.Bucket); err != nil {
			log.Warn("backup bucket unavailable", zap.String("bucket", cfg.Backup.Bucket), zap.Error(err))
		}
		objectStorage = minioSvc
	} else {
		log.Warn("MINIO_ENDPOINT not set, business backups disabled")
	}

	// Services
	resolver := services.NewTenantResolver(configRepo, cfg.Storage.DefaultNamespace, log.Named("resolver"))
	businessSvc := services.NewBusinessService(resolver, businessRepo, log.Named("business"))
	tenantConfigSvc := services.NewTenantConfigService(configRepo, businessRepo, resolver, cfg.Storage.DefaultNamespace)
	backupSvc := services.NewBackupService(objectStorage, cfg.Backup.Bucket, cfg.Backup.URLExpiry, resolver, businessRepo, appMetrics, log.Named("backup"))

	// Background backups
	if backupSvc.Enabled() && cfg.Backup.Interval > 0 {
		scheduler, err := background.NewJobScheduler(backupSvc, businessRepo, cfg.Backup.Interval, log.Named("jobs"))
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Warn("failed to stop job scheduler", zap.Error(err))
			}
		}()
	}

	// JWT configuration
	jwtConfig := middleware.JWTConfig{
		SigningKey: []byte(cfg.Auth.JWTSecret),
		AdminGroup: cfg.Auth.AdminGroup,
	}
	if cfg.Auth.CognitoJWKSURL != "" {
		keyFunc, stopJWKS, err := middleware.NewCognitoKeyFunc(ctx, cfg.Auth.CognitoJWKSURL, cfg.Auth.JWKSRefresh, log)
		if err != nil {
			return err
		}
		defer stopJWKS()
		jwtConfig.KeyFunc = keyFunc
		jwtConfig.ClientID = cfg.Auth.CognitoClientID
	} else if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return errors.New("COGNITO_JWKS_URL or JWT_SECRET is required in production")
		}
		jwtConfig.SigningKey = []byte(random.String(32)) // Generate random secret for development
		log.Warn("Using generated JWT secret, tokens will not survive a restart")
	}

	// Handlers
	businessHandlers := handlers.NewBusinessHandlers(businessSvc, backupSvc)
	tenantConfigHandlers := handlers.NewTenantConfigHandlers(tenantConfigSvc)
	var dbPinger handlers.Pinger
	if pool != nil {
		dbPinger = pool
	}
	healthHandlers := handlers.NewHealthHandlers(businessRepo, cacheSvc, objectStorage, cfg.Backup.Bucket, dbPinger, version)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(log)
	e.Validator = handlers.NewRequestValidator()

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.BodyLimit("1M"))
	e.Use(middleware.Metrics(appMetrics))

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health, metrics and docs (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtConfig))
	protected.Use(middleware.NewRateLimitMiddleware(cacheSvc, cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow, appMetrics, log).Limit())

	// Business routes
	protected.GET("/business", businessHandlers.GetBusinessInfo)
	protected.PUT("/business", businessHandlers.SaveBusinessInfo)
	protected.POST("/business", businessHandlers.SaveBusinessInfo)
	protected.GET("/business/template", businessHandlers.GetBusinessTemplate)
	protected.POST("/business/backup", businessHandlers.ExportBusinessInfo)

	// User config routes
	protected.GET("/userconfig", tenantConfigHandlers.GetTenantConfig)
	protected.PUT("/userconfig", tenantConfigHandlers.UpdateTenantConfig)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		log.Info("Business portal server starting",
			zap.String("version", version),
			zap.Int("port", cfg.Port),
			zap.String("data_root", cfg.Storage.DataRoot),
			zap.String("tenant_config_backend", cfg.Storage.TenantConfigBackend),
		)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
