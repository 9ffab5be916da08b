package bootstrap

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/eleven-am/voice-bridge/internal/gateway"
	"github.com/eleven-am/voice-bridge/internal/health"
	"github.com/eleven-am/voice-bridge/internal/session"
	"github.com/eleven-am/voice-bridge/internal/usage"
)

const version = "1.0.0"

func ProvideHealthHandler(
	db *gorm.DB,
	redis *redis.Client,
	registry *gateway.Registry,
	sessions *session.Store,
	usageStore *usage.Store,
) *health.Handler {
	return health.NewHandler(db, redis, registry, sessions, usageStore, version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
