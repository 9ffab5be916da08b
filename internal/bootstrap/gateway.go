package bootstrap

import (
	"go.uber.org/fx"

	"github.com/eleven-am/voice-bridge/internal/gateway"
	"github.com/eleven-am/voice-bridge/internal/live"
)

func ProvideLiveConfig(cfg *Config) live.Config {
	return live.Config{
		APIKey:   cfg.GeminiAPIKey,
		Endpoint: cfg.GeminiHost,
	}
}

var GatewayModule = fx.Options(
	fx.Provide(ProvideLiveConfig),
	gateway.Module,
)
