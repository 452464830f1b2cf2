package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	BaseURL         string
	DatabaseURL     string
	DatabaseType    string
	PlatformsFile   string
	StrictPlatforms bool
	LogLevel        slog.Level
}

// StatsEnabled reports whether a stats database is configured
func (c Config) StatsEnabled() bool {
	return c.DatabaseURL != ""
}

// LoadEnv reads .env files into the process environment outside production.
// Variables already set are not overridden. Missing files are ignored.
func LoadEnv(files ...string) error {
	if os.Getenv("APP_ENV") == "production" {
		return nil
	}
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ParseFlags parses flags, falling back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var strict, logLevel string

	fs := flag.NewFlagSet("follow-rotator", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL used in share links")

	// Stats database, optional
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (enables link stats)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Platforms
	fs.StringVar(&cfg.PlatformsFile, "platforms", "", "YAML file with extra platforms")
	fs.StringVar(&strict, "strict", "", "Reject unknown platforms in tokens (true/false)")

	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port out of range: %d", cfg.Port)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.PlatformsFile == "" {
		cfg.PlatformsFile = os.Getenv("PLATFORMS_FILE")
	}

	if strict == "" {
		strict = os.Getenv("STRICT_PLATFORMS")
	}
	if strict != "" {
		b, err := strconv.ParseBool(strict)
		if err != nil {
			return Config{}, errors.New("invalid STRICT_PLATFORMS value")
		}
		cfg.StrictPlatforms = b
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
			return Config{}, fmt.Errorf("invalid log level %q", logLevel)
		}
	}

	return cfg, nil
}
