package bootstrap

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"

	"github.com/eleven-am/voice-bridge/docs"
	"github.com/eleven-am/voice-bridge/internal/gateway"
	"github.com/eleven-am/voice-bridge/internal/session"
)

func RegisterRoutes(e *echo.Echo, gatewayHandler *gateway.Handler, sessionHandler *session.Handler) {
	gatewayHandler.RegisterRoutes(e)
	sessionHandler.RegisterRoutes(e)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())
	e.GET("/asyncapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", docs.AsyncAPISpec)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideSessionHandler(store *session.Store, logger *slog.Logger) *session.Handler {
	return session.NewHandler(store, logger.With("handler", "session"))
}

var HandlersModule = fx.Options(
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideSessionHandler),
	fx.Invoke(RegisterRoutes),
)
