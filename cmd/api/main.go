package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"artgallery-storefront/internal/config"
	"artgallery-storefront/internal/db"
	"artgallery-storefront/internal/httpserver"
	"artgallery-storefront/internal/logger"
	"artgallery-storefront/internal/pricing"
	"artgallery-storefront/internal/promo"
	productrepo "artgallery-storefront/internal/repository/product"
	tokenrepo "artgallery-storefront/internal/repository/token"
	userrepo "artgallery-storefront/internal/repository/user"
	"artgallery-storefront/internal/seed"
	"artgallery-storefront/internal/service/auth"
	"artgallery-storefront/internal/service/catalog"
	"artgallery-storefront/internal/session"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg := logger.New(logger.ForEnvironment(cfg.Env, cfg.LogLevel, cfg.LogFormat))
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()

	var (
		products productrepo.Repository
		users    userrepo.Repository
		tokens   tokenrepo.Repository
		ready    httpserver.Pinger
	)
	if cfg.DBConnString == "" {
		lg.Warn("DB_DSN not set, serving the seed catalog from memory")
		products = productrepo.NewMemory(seed.Artworks()...)
		users = userrepo.NewMemory()
		tokens = tokenrepo.NewMemory()
	} else {
		dbpool, err := db.Connect(ctx, cfg.DBConnString, lg)
		if err != nil {
			lg.Fatal("connect to db", zap.Error(err))
		}
		defer dbpool.Close()
		products = productrepo.NewPostgres(dbpool, lg)
		users = userrepo.NewPostgres(dbpool, lg)
		tokens = tokenrepo.NewPostgres(dbpool)
		ready = dbpool
	}

	authService := auth.New(users, tokens, lg)
	catalogService := catalog.New(products, users, lg)

	bypass := session.BypassCredential{Email: cfg.AdminBypassEmail, Password: cfg.AdminBypassPassword}
	if bypass.Enabled() {
		lg.Warn("admin bypass credential enabled", zap.String("env", cfg.Env))
	}

	srv, err := httpserver.New(cfg.HTTPAddr, lg, ready, httpserver.Deps{
		Catalog: catalogService,
		NewAuthenticator: func(token string) session.Authenticator {
			return authService.NewClient(token)
		},
		Promos: promo.NewKeywordValidator(cfg.PromoKeywords, cfg.PromoDiscountPercent),
		Pricing: pricing.Config{
			Shipping:         cfg.ShippingCost,
			CollectorPercent: cfg.CollectorDiscountPercent,
		},
		Bypass:       bypass,
		VisitorTTL:   cfg.VisitorTTL,
		DemoKeychain: cfg.DemoKeychain,
		CORSOrigins:  cfg.CORSAllowOrigins,
	})
	if err != nil {
		lg.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		lg.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		lg.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		lg.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	} else {
		lg.Info("server stopped")
	}
}
