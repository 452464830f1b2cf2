// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cliparse.LoadEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadEnv reads .env with godotenv unless APP_ENV is "production". Values
already in the environment win over the file.

# Config Fields

  - Port: Server listen port (default: 3318)
  - BaseURL: Prefix for share links (default: http://localhost:<port>)
  - DatabaseURL: Stats database, optional; stats are disabled when empty
  - DatabaseType: sqlite (default) or postgres
  - PlatformsFile: YAML file with extra platforms
  - StrictPlatforms: Reject unknown platform IDs in tokens
  - LogLevel: slog level (default: info)

# CLI Flags and Environment Variables

	-p          PORT
	-base-url   BASE_URL
	-d          DATABASE_URL
	-t          DATABASE_TYPE
	-platforms  PLATFORMS_FILE
	-strict     STRICT_PLATFORMS
	-log-level  LOG_LEVEL

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error for a non-numeric or out-of-range port, a
database type other than sqlite or postgres, a non-boolean strict value, or
an unknown log level.
*/
package cliparse
