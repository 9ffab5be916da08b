package gateway

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/eleven-am/voice-bridge/internal/live"
	"github.com/eleven-am/voice-bridge/internal/session"
	"github.com/eleven-am/voice-bridge/internal/usage"
)

func ProvideSessionOpener(cfg live.Config, logger *slog.Logger) SessionOpener {
	return func(ctx context.Context) (BackendSession, error) {
		s, err := live.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func ProvideMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

func ProvideDispatcher(logger *slog.Logger) *Dispatcher {
	return NewDispatcher(logger)
}

func ProvideBridgeDeps(
	opener SessionOpener,
	registry *Registry,
	dispatcher *Dispatcher,
	sessions *session.Store,
	usageStore *usage.Store,
	metrics *Metrics,
	logger *slog.Logger,
) BridgeDeps {
	return BridgeDeps{
		Opener:     opener,
		Registry:   registry,
		Dispatcher: dispatcher,
		Sessions:   sessions,
		Usage:      usageStore,
		Metrics:    metrics,
		Logger:     logger,
	}
}

func ProvideHandler(deps BridgeDeps) *Handler {
	return NewHandler(deps)
}

var Module = fx.Options(
	fx.Provide(
		NewRegistry,
		ProvideSessionOpener,
		ProvideMetrics,
		ProvideDispatcher,
		ProvideBridgeDeps,
		ProvideHandler,
	),
)
