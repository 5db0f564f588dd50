package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"parfumerie/internal/config"
	"parfumerie/internal/db"
	"parfumerie/internal/importer"
	applog "parfumerie/internal/log"
)

var (
	loadConfigFunc    = config.Load
	setLogLevelFunc   = applog.SetLevel
	configureDatabase = db.Configure
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := loadConfigFunc()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}

	productsPath := cfg.Importer.ProductsCSV
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		productsPath = args[0]
	}

	variantsPath := cfg.Importer.VariantsCSV
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		variantsPath = args[1]
	}

	policy, err := importer.ParsePolicy(cfg.Importer.Policy)
	if err != nil {
		return err
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return err
	}

	catalog := importer.New(sink, importer.Options{
		Policy:        policy,
		DisplayVolume: cfg.Importer.DisplayVolume,
		RetryAttempts: cfg.Importer.RetryAttempts,
		OpTimeout:     cfg.Importer.OpTimeout,
	})

	report, err := catalog.Run(ctx, productsPath, cfg.Importer.FallbackCSV, variantsPath)
	if err != nil {
		return fmt.Errorf("import %s: %w", filepath.Base(productsPath), err)
	}

	fmt.Fprintln(os.Stdout, report.String())
	return nil
}

func buildSink(cfg config.Config) (importer.Sink, error) {
	if url := strings.TrimSpace(cfg.Importer.APIURL); url != "" {
		return importer.NewAPISink(url, cfg.Server.APIToken), nil
	}

	database, err := configureDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("configure database: %w", err)
	}

	return importer.NewStoreSink(database), nil
}
