package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"florist/internal/catalog"
	"florist/internal/shared/config"
	"florist/internal/shared/constants"
	"florist/internal/shared/database"
	"florist/pkg/cache"
	"florist/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var filePath string
	var clean bool

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVarP(&filePath, "file", "f", "cmd/seed/catalog.yaml", "path to the catalog YAML file")
	flagSet.BoolVar(&clean, "clean", false, "delete discussions, reservations and services before importing")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.GetDefault()

	file, err := LoadCatalogFile(filePath)
	if err != nil {
		return err
	}

	db, err := database.OpenPostgreSQL(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Catalog pages served from Redis must not outlive the rows they list
	cacheService := cache.NewMemoryService()
	if rdb, err := database.OpenRedis(cfg); err != nil {
		log.Warn("Redis unavailable, catalog cache not invalidated", slog.Any("error", err))
	} else {
		defer rdb.Close()
		cacheService = cache.NewService(rdb)
	}

	created, err := importCatalog(ctx, db, cacheService, file, clean)
	if err != nil {
		return err
	}

	log.Info("Seeding completed", slog.Int("services", created), slog.String("file", filePath))
	return nil
}

// importCatalog optionally wipes the tables, creates every service of file,
// then drops the cached catalog pages.
func importCatalog(ctx context.Context, db *gorm.DB, cacheService cache.Service, file *CatalogFile, clean bool) (int, error) {
	log := logger.GetDefault()

	if clean {
		if err := cleanDatabase(ctx, db); err != nil {
			return 0, err
		}
		log.Info("Database cleaned")
	}

	svc := catalog.NewCatalog(catalog.NewRepository(db), cacheService)

	created := 0
	for _, entry := range file.Services {
		req, err := entry.ToRequest()
		if err != nil {
			return created, err
		}
		service, err := svc.CreateService(ctx, req)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", req.Name, err)
		}
		created++
		log.Info("Service created",
			slog.String("id", service.ID),
			slog.String("name", service.Name),
			slog.String("tarification", service.Tarification),
		)
	}

	if err := cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_CATALOG); err != nil {
		return created, fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return created, nil
}

// cleanDatabase deletes rows in reverse dependency order.
func cleanDatabase(ctx context.Context, db *gorm.DB) error {
	for _, table := range []string{"discussion_reservations", "reservations", "services"} {
		if err := db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}
	return nil
}
