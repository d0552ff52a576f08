package main

import (
	"context"
	"flag"
	"log"
	"time"

	"user-service/internal/config"
	"user-service/internal/database/migration"
	dbpostgres "user-service/internal/database/postgres"
	"user-service/internal/database/seeder"
	"user-service/internal/pkg/logger"
	"user-service/migrations"

	"go.uber.org/zap"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo users after migrating")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.App.IsProduction(), cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := (migration.Runner{FS: migrations.FS, Logger: zl.Named("migration")}).Run(ctx, db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	if !*seed {
		return
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: zl.Named("seeder")}).Run(ctx, db); err != nil {
		zl.Fatal("seeding failed", zap.Error(err))
	}
}
