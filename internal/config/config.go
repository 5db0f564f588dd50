package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the catalog service and the
// importer. Values come from the environment, optionally seeded from a .env
// file in the working directory.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Importer ImporterConfig
}

// ServerConfig configures the HTTP API runtime behavior.
type ServerConfig struct {
	Addr     string
	APIToken string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string
}

// ImporterConfig drives the catalog import pipeline.
type ImporterConfig struct {
	ProductsCSV   string
	FallbackCSV   string
	VariantsCSV   string
	APIURL        string
	Policy        string
	DisplayVolume int
	RetryAttempts int
	OpTimeout     time.Duration
}

// Load inspects the environment and builds a Config value. A .env file is
// honored when present but never required.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
		APIToken: strings.TrimSpace(os.Getenv("API_TOKEN")),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
	}

	cfg.Importer = ImporterConfig{
		ProductsCSV:   firstNonEmpty(os.Getenv("CATALOG_CSV"), "catalogue.csv"),
		FallbackCSV:   firstNonEmpty(os.Getenv("CATALOG_CSV_FALLBACK"), "data/catalogue.csv"),
		VariantsCSV:   firstNonEmpty(os.Getenv("VARIANTS_CSV"), "contenances.csv"),
		APIURL:        strings.TrimSpace(os.Getenv("CATALOG_API_URL")),
		Policy:        firstNonEmpty(os.Getenv("IMPORT_POLICY"), "skip"),
		DisplayVolume: parseIntWithDefault(os.Getenv("DISPLAY_VOLUME_ML"), 70),
		RetryAttempts: parseIntWithDefault(os.Getenv("IMPORT_RETRY_ATTEMPTS"), 3),
		OpTimeout:     parseDurationWithDefault(os.Getenv("IMPORT_OP_TIMEOUT"), 10*time.Second),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	if cfg.Importer.RetryAttempts < 1 {
		return Config{}, fmt.Errorf("import retry attempts must be at least 1")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
