// Package config holds the runtime configuration for schemactl.
// Values come from CLI flags with environment fallback; a .env file in
// the working directory is honored when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names. Each backs the flag of the same concern
// and applies only when the flag is left at its default.
const (
	EnvDatabasePath = "SCHEMACTL_DB"
	EnvSchemaPath   = "SCHEMACTL_SCHEMA"
	EnvEcho         = "SCHEMACTL_ECHO"
	EnvLogFile      = "SCHEMACTL_LOG_FILE"
)

// Defaults.
const (
	DefaultDatabasePath = "./sqlite.db"
	DefaultSchemaPath   = "./schema.yaml"
)

// Config is the resolved runtime configuration.
type Config struct {
	DatabasePath string
	SchemaPath   string
	Echo         bool
	LogFile      string
}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		DatabasePath: DefaultDatabasePath,
		SchemaPath:   DefaultSchemaPath,
	}
}

// LoadDotenv loads a .env file from the working directory if one
// exists. A missing file is not an error.
func LoadDotenv() {
	_ = godotenv.Load()
}

// ApplyEnv overlays environment variables onto cfg. A variable only
// applies where the current value still equals its default, so
// explicit flags win over the environment.
func ApplyEnv(cfg *Config) {
	if cfg.DatabasePath == DefaultDatabasePath {
		if v := os.Getenv(EnvDatabasePath); v != "" {
			cfg.DatabasePath = v
		}
	}
	if cfg.SchemaPath == DefaultSchemaPath {
		if v := os.Getenv(EnvSchemaPath); v != "" {
			cfg.SchemaPath = v
		}
	}
	if !cfg.Echo {
		if v := os.Getenv(EnvEcho); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				cfg.Echo = b
			}
		}
	}
	if cfg.LogFile == "" {
		if v := os.Getenv(EnvLogFile); v != "" {
			cfg.LogFile = v
		}
	}
}
