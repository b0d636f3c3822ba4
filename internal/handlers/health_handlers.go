package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"bizportal/internal/caching"
	"bizportal/internal/repositories"
	"bizportal/internal/services"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
	statusDegraded  = "degraded"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	businessRepo repositories.BusinessRepository
	cacheSvc     caching.CacheService
	storage      services.ObjectStorage
	bucket       string
	db           Pinger
	version      string
	startedAt    time.Time
}

// NewHealthHandlers creates a new health handlers instance. Optional
// dependencies may be nil and are reported as disabled.
func NewHealthHandlers(businessRepo repositories.BusinessRepository, cacheSvc caching.CacheService,
	storage services.ObjectStorage, bucket string, db Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		businessRepo: businessRepo,
		cacheSvc:     cacheSvc,
		storage:      storage,
		bucket:       bucket,
		db:           db,
		version:      version,
		startedAt:    time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

// HealthCheck reports the state of every dependency
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	health := &HealthStatus{
		Status:     statusHealthy,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	checks := map[string]func(context.Context) error{
		"storage": h.businessRepo.Ping,
	}
	if h.cacheSvc != nil {
		checks["redis"] = h.cacheSvc.Ping
	} else {
		health.Services["redis"] = statusDisabled
	}
	if h.storage != nil {
		checks["object_storage"] = h.checkObjectStorage
	} else {
		health.Services["object_storage"] = statusDisabled
	}
	if h.db != nil {
		checks["database"] = h.db.Ping
	} else {
		health.Services["database"] = statusDisabled
	}

	for name, check := range checks {
		if err := check(ctx); err != nil {
			health.Services[name] = statusUnhealthy
			health.Status = statusDegraded
		} else {
			health.Services[name] = statusHealthy
		}
	}

	statusCode := http.StatusOK
	if health.Status == statusDegraded {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic.
// Only the record store and the tenant config database are critical.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.businessRepo.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Business data storage unavailable",
		})
	}
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "not_ready",
				"message": "Tenant config database unavailable",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

func (h *HealthHandlers) checkObjectStorage(ctx context.Context) error {
	_, err := h.storage.BucketExists(ctx, h.bucket)
	return err
}
