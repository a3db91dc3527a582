package app

import (
	"context"
	"fmt"

	"coupon-api/internal/config"
	"coupon-api/internal/db"
	"coupon-api/internal/logger"
	"coupon-api/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg *config.Config) (*Infra, error) {
	database, err := db.Open(ctx, db.Options{
		DSN:          cfg.Database.DSN.Expose(),
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Database.Migrate {
		if err := db.RunMigrations(ctx, database.DB); err != nil {
			_ = database.Close()
			return nil, err
		}
	}

	logger.Info("database ready", map[string]any{
		"migrated": cfg.Database.Migrate,
	})

	redisClient, err := redis.New(ctx, redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password.Expose(),
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
		OpTimeout:   cfg.Redis.OpTimeout,
		PoolSize:    cfg.Redis.PoolSize,
	})
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis ready", map[string]any{
		"addr": cfg.Redis.Addr,
	})

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}

func (i *Infra) Close() error {
	redisErr := i.Redis.Close()
	dbErr := i.DB.Close()
	if redisErr != nil {
		return redisErr
	}
	return dbErr
}
