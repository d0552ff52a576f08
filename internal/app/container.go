package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-service/internal/config"
	"user-service/internal/database"
	dbpostgres "user-service/internal/database/postgres"
	"user-service/internal/infrastructure/cache"
	"user-service/internal/infrastructure/persistence/postgres"
	"user-service/internal/infrastructure/storage"
	"user-service/internal/pkg/jwt"
	useruc "user-service/internal/usecase/user"

	"go.uber.org/zap"
)

// Container holds the long-lived dependencies of the HTTP server.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	Storage *storage.Local
	JWT     jwt.Service
	Users   *useruc.Service
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	files, err := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.PublicPath, cfg.Upload.MaxBytes)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	redisCache := cache.NewRedis(ctx, cfg.Redis, logger)

	return Assemble(cfg, logger, db, redisCache, files), nil
}

// Assemble builds the use cases on top of already-opened resources.
func Assemble(cfg config.Config, logger *zap.Logger, db database.DB, redisCache *cache.Redis, files *storage.Local) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []useruc.Option{useruc.WithLogger(logger.Named("users"))}
	if redisCache != nil {
		opts = append(opts, useruc.WithCache(redisCache, cfg.Redis.TTL))
	}
	if files != nil {
		opts = append(opts, useruc.WithFileStore(files))
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   redisCache,
		Storage: files,
		JWT:     jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn),
		Users:   useruc.NewService(postgres.NewUserRepository(db), opts...),
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
