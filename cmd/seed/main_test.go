package main

import (
	"context"
	"testing"
	"time"

	"florist/internal/shared/constants"
	"florist/internal/shared/database"
	"florist/pkg/cache"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestImportCatalogDropsCachedPages(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cacheService := cache.NewMemoryService()

	file, err := ParseCatalog([]byte("services:\n  - name: Couronne\n    tarification: Sur devis\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n, err := importCatalog(ctx, db, cacheService, file, false); err != nil || n != 1 {
		t.Fatalf("first import: n=%d err=%v", n, err)
	}

	listKey := constants.BuildCatalogListKey("", "", false)
	inboxKey := constants.BuildInboxKey("u1")
	for _, key := range []string{listKey, inboxKey} {
		if err := cacheService.Set(ctx, key, []string{"Couronne"}, time.Hour); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if n, err := importCatalog(ctx, db, cacheService, &CatalogFile{}, true); err != nil || n != 0 {
		t.Fatalf("clean import: n=%d err=%v", n, err)
	}

	var count int64
	if err := db.Table("services").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected --clean to empty the catalog, %d rows left", count)
	}
	if cacheService.Exists(ctx, listKey) {
		t.Fatalf("cached catalog page survived a clean import")
	}
	if !cacheService.Exists(ctx, inboxKey) {
		t.Fatalf("non-catalog keys must be left alone")
	}
}
