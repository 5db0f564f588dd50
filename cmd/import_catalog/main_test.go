package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"parfumerie/internal/config"
	"parfumerie/internal/db/mock"
	"parfumerie/models"
)

func writeCatalogFixtures(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()

	productsPath := filepath.Join(dir, "catalogue.csv")
	products := "Référence,Inspiration,Genre,Famille olfactive,Notes de tête,Notes de cœur,Notes de fond,Intensité,Description,À propos,Conseils,Prix\n" +
		"120,Lumière d'Été,Femme,Florale,Bergamote,Jasmin,Musc,légère,,,,39.90\n" +
		"121,Bois d'Hiver,Homme,Boisée,Poivre,Cèdre,Vétiver,intense,,,,42.00\n"
	if err := os.WriteFile(productsPath, []byte(products), 0o600); err != nil {
		t.Fatalf("write products csv: %v", err)
	}

	variantsPath := filepath.Join(dir, "contenances.csv")
	variants := "Référence,Contenance,Prix,Réf\n" +
		"120,30,24.90,120-30\n" +
		"120,70,39.90,120-70\n"
	if err := os.WriteFile(variantsPath, []byte(variants), 0o600); err != nil {
		t.Fatalf("write variants csv: %v", err)
	}

	return productsPath, variantsPath
}

func stubConfig(productsPath, variantsPath string) config.Config {
	return config.Config{
		Server:   config.ServerConfig{Addr: ":8080"},
		Database: config.DatabaseConfig{URL: "postgres://stub"},
		Logging:  config.LoggingConfig{Level: "info"},
		Importer: config.ImporterConfig{
			ProductsCSV:   productsPath,
			FallbackCSV:   productsPath,
			VariantsCSV:   variantsPath,
			Policy:        "skip",
			DisplayVolume: 70,
			RetryAttempts: 1,
			OpTimeout:     5 * time.Second,
		},
	}
}

func TestRunImportsCatalogIntoDatabase(t *testing.T) {
	originalLoadConfig := loadConfigFunc
	originalConfigure := configureDatabase
	t.Cleanup(func() {
		loadConfigFunc = originalLoadConfig
		configureDatabase = originalConfigure
	})

	productsPath, variantsPath := writeCatalogFixtures(t)
	cfg := stubConfig(productsPath, variantsPath)
	loadConfigFunc = func() (config.Config, error) { return cfg, nil }

	ctx := context.Background()
	database, err := mock.New(ctx)
	if err != nil {
		t.Fatalf("mock.New returned error: %v", err)
	}
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		return database, nil
	}

	if err := run(ctx, nil); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	var parfum models.Parfum
	if err := database.Preload("Variants").Where("reference = ?", "120").First(&parfum).Error; err != nil {
		t.Fatalf("fetch imported parfum: %v", err)
	}
	if parfum.Slug == "" {
		t.Fatal("expected imported parfum to carry a slug")
	}
	if parfum.Genre != models.GenreFemme {
		t.Fatalf("expected genre %q, got %q", models.GenreFemme, parfum.Genre)
	}
	if len(parfum.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(parfum.Variants))
	}
	if parfum.Price != 39.90 {
		t.Fatalf("expected display price 39.90, got %.2f", parfum.Price)
	}

	var second models.Parfum
	if err := database.Where("reference = ?", "121").First(&second).Error; err != nil {
		t.Fatalf("fetch second parfum: %v", err)
	}
	if second.Genre != models.GenreHomme {
		t.Fatalf("expected genre %q, got %q", models.GenreHomme, second.Genre)
	}
}

func TestRunPositionalArgumentsOverridePaths(t *testing.T) {
	originalLoadConfig := loadConfigFunc
	originalConfigure := configureDatabase
	t.Cleanup(func() {
		loadConfigFunc = originalLoadConfig
		configureDatabase = originalConfigure
	})

	productsPath, variantsPath := writeCatalogFixtures(t)
	cfg := stubConfig("missing.csv", "missing-variants.csv")
	loadConfigFunc = func() (config.Config, error) { return cfg, nil }

	ctx := context.Background()
	database, err := mock.New(ctx)
	if err != nil {
		t.Fatalf("mock.New returned error: %v", err)
	}
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		return database, nil
	}

	if err := run(ctx, []string{productsPath, variantsPath}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	var count int64
	if err := database.Model(&models.Parfum{}).Where("reference = ?", "120").Count(&count).Error; err != nil {
		t.Fatalf("count imported parfums: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 imported parfum, got %d", count)
	}
}

func TestRunRejectsUnknownPolicy(t *testing.T) {
	originalLoadConfig := loadConfigFunc
	originalConfigure := configureDatabase
	t.Cleanup(func() {
		loadConfigFunc = originalLoadConfig
		configureDatabase = originalConfigure
	})

	productsPath, variantsPath := writeCatalogFixtures(t)
	cfg := stubConfig(productsPath, variantsPath)
	cfg.Importer.Policy = "merge"
	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		t.Fatal("database should not be configured when the policy is invalid")
		return nil, nil
	}

	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestRunReportsConfigLoadFailure(t *testing.T) {
	originalLoadConfig := loadConfigFunc
	t.Cleanup(func() { loadConfigFunc = originalLoadConfig })

	loadConfigFunc = func() (config.Config, error) {
		return config.Config{}, errors.New("bad environment")
	}

	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected error when config load fails")
	}
}
