package database

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestCheckTablesBeforeAndAfterMigrate(t *testing.T) {
	db := openSQLite(t)

	for _, status := range CheckTables(db) {
		if status.Exists {
			t.Fatalf("table %s should not exist before migrate", status.Name)
		}
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	names := []string{}
	for _, status := range CheckTables(db) {
		if !status.Exists {
			t.Fatalf("table %s missing after migrate", status.Name)
		}
		names = append(names, status.Name)
	}
	want := []string{"users", "cvs", "cv_templates"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Fatalf("tables = %v, want %v", names, want)
	}
}

func TestSeedTemplatesIsIdempotent(t *testing.T) {
	db := openSQLite(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()

	inserted, err := SeedTemplates(ctx, db, DefaultTemplates)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if inserted != int64(len(DefaultTemplates)) {
		t.Fatalf("inserted = %d, want %d", inserted, len(DefaultTemplates))
	}

	// 已存在的模板不会被覆盖
	if err := db.Model(&CVTemplate{}).Where("id = ?", "1").Update("name", "Renamed").Error; err != nil {
		t.Fatalf("rename: %v", err)
	}
	inserted, err = SeedTemplates(ctx, db, DefaultTemplates)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("reseed inserted = %d, want 0", inserted)
	}

	var first CVTemplate
	if err := db.First(&first, "id = ?", "1").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if first.Name != "Renamed" {
		t.Fatalf("name = %q, want Renamed", first.Name)
	}

	var count int64
	db.Model(&CVTemplate{}).Count(&count)
	if count != int64(len(DefaultTemplates)) {
		t.Fatalf("count = %d", count)
	}
}

func TestDefaultTemplatesHaveUniqueIDsAndOrder(t *testing.T) {
	seen := map[string]bool{}
	for i, tpl := range DefaultTemplates {
		if seen[tpl.ID] {
			t.Fatalf("duplicate id %s", tpl.ID)
		}
		seen[tpl.ID] = true
		if tpl.SortOrder != i+1 {
			t.Fatalf("template %s sort order = %d, want %d", tpl.ID, tpl.SortOrder, i+1)
		}
	}
}

func TestCVBeforeCreateAssignsID(t *testing.T) {
	cv := &CV{}
	if err := cv.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if len(cv.ID) != 36 {
		t.Fatalf("id = %q", cv.ID)
	}
	keep := &CV{ID: "fixed"}
	_ = keep.BeforeCreate(nil)
	if keep.ID != "fixed" {
		t.Fatalf("existing id overwritten: %q", keep.ID)
	}
}
