package bootstrap

import (
	"github.com/eleven-am/voice-bridge/internal/session"
	"github.com/eleven-am/voice-bridge/internal/usage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideSessionStore(redisClient *redis.Client) *session.Store {
	return session.NewStore(redisClient)
}

func ProvideUsageStore(db *gorm.DB) *usage.Store {
	return usage.NewStore(db)
}

func RunMigrations(usageStore *usage.Store) error {
	return usageStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideSessionStore,
		ProvideUsageStore,
	),
	fx.Invoke(RunMigrations),
)
