package main

import (
	"context"
	"flag"
	"log"

	"artgallery-storefront/internal/config"
	"artgallery-storefront/internal/db"
	"artgallery-storefront/internal/domain"
	"artgallery-storefront/internal/logger"
	tokenrepo "artgallery-storefront/internal/repository/token"
	userrepo "artgallery-storefront/internal/repository/user"
	"artgallery-storefront/internal/seed"
	"artgallery-storefront/internal/service/auth"

	"go.uber.org/zap"
)

func main() {
	var (
		adminName     string
		adminEmail    string
		adminPassword string
	)
	flag.StringVar(&adminName, "admin-name", "Gallery Curator", "Full name of the admin account")
	flag.StringVar(&adminEmail, "admin-email", "", "Email of an admin account to provision")
	flag.StringVar(&adminPassword, "admin-password", "", "Password of the admin account")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg := logger.New(logger.ForEnvironment(cfg.Env, cfg.LogLevel, cfg.LogFormat)).Named("seed")
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, lg)
	if err != nil {
		lg.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		lg.Fatal("seed apply", zap.Error(err))
	}

	if adminEmail != "" {
		accounts := auth.New(userrepo.NewPostgres(pool, lg), tokenrepo.NewPostgres(pool), lg)
		err := seed.Accounts(ctx, accounts, []seed.Account{{
			FullName: adminName,
			Email:    adminEmail,
			Password: adminPassword,
			Role:     domain.RoleAdmin,
		}})
		if err != nil {
			lg.Fatal("seed accounts", zap.Error(err))
		}
		lg.Info("admin account ready", zap.String("email", adminEmail))
	}

	lg.Info("seed applied")
}
