package app

import (
	"context"
	"errors"

	"hr-ops/internal/config"
	"hr-ops/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module on router.
// The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if cfg.Database.AutoMigrate {
		if err := migrate(gormDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = errors.Join(rdb.Close(), sqlDB.Close())
	}

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

func ping(ctx context.Context, pingers ...func(context.Context) error) error {
	var errs []error
	for _, p := range pingers {
		errs = append(errs, p(ctx))
	}
	return errors.Join(errs...)
}
