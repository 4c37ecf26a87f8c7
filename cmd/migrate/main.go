package main

import (
	"context"
	"flag"
	"log"

	"artgallery-storefront/internal/config"
	"artgallery-storefront/internal/db"
	"artgallery-storefront/internal/logger"
	"artgallery-storefront/internal/migrate"

	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "Roll back every migration instead of applying")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg := logger.New(logger.ForEnvironment(cfg.Env, cfg.LogLevel, cfg.LogFormat)).Named("migrate")
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, lg)
	if err != nil {
		lg.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if *down {
		if err := migrate.Down(ctx, pool); err != nil {
			lg.Fatal("roll back migrations", zap.Error(err))
		}
		lg.Info("migrations rolled back")
		return
	}

	if err := migrate.Apply(ctx, pool, lg); err != nil {
		lg.Fatal("apply migrations", zap.Error(err))
	}
	lg.Info("migrations applied")
}
