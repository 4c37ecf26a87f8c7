package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"artgallery-storefront/internal/config"
	"artgallery-storefront/internal/db"
	"artgallery-storefront/internal/importer"
	"artgallery-storefront/internal/logger"
	productrepo "artgallery-storefront/internal/repository/product"
	userrepo "artgallery-storefront/internal/repository/user"
	"artgallery-storefront/internal/service/catalog"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to an artwork CSV (name,description,price,category,image_url[,is_sold_out,artist_note])")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg := logger.New(logger.ForEnvironment(cfg.Env, cfg.LogLevel, cfg.LogFormat)).Named("importer")
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, lg)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	svc := catalog.New(productrepo.NewPostgres(pool, lg), userrepo.NewPostgres(pool, lg), lg)
	imp := importer.NewCSVImporter(f, svc)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed after %d artworks: %v", count, err)
	}

	fmt.Printf("Imported %d artworks in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
