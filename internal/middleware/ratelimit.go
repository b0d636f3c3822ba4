package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bizportal/internal/caching"
	"bizportal/internal/common"
	"bizportal/internal/metrics"
)

type RateLimitMiddleware struct {
	cache   caching.CacheService
	limit   int
	window  time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewRateLimitMiddleware(cache caching.CacheService, limit int, window time.Duration, m *metrics.Metrics, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cache:   cache,
		limit:   limit,
		window:  window,
		metrics: m,
		logger:  logger,
	}
}

// Limit rejects requests over the per-principal window. Requests without a
// principal are keyed by client IP. Redis errors let the request through.
func (m *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.cache == nil || m.limit <= 0 {
				return next(c)
			}

			key := "ip:" + c.RealIP()
			if principal := common.GetPrincipalFromContext(c.Request().Context()); principal != nil {
				key = "user:" + principal.UserID
			}

			limited, err := m.cache.IsRateLimited(c.Request().Context(), key, m.limit, m.window)
			if err != nil {
				m.logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if limited {
				m.metrics.RecordRateLimited()
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}

			return next(c)
		}
	}
}
