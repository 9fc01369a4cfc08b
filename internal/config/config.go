// Package config loads stockroom settings from flags, the environment, .env and
// the config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Configuration keys.
const (
	KeyDataPath         = "data.path"
	KeyTransactionsPath = "data.transactions_path"
	KeyBackend          = "storage.backend"
	KeyDatabasePath     = "database.path"
	KeyLogLevel         = "logging.level"
	KeyLogFormat        = "logging.format"
)

// Config is the resolved application configuration.
type Config struct {
	DataPath         string
	TransactionsPath string
	Backend          string
	DatabasePath     string
	LogLevel         string
	LogFormat        string
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataPath, "store_data.txt")
	v.SetDefault(KeyTransactionsPath, "transactions.txt")
	v.SetDefault(KeyBackend, BackendText)
	v.SetDefault(KeyDatabasePath, "store_data.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// LoadDotEnv loads a .env file from dir into the process environment.
// A missing file is not an error; variables already set are never overridden.
func LoadDotEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file found, proceeding without it", "path", envPath)
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	slog.Debug(".env file loaded", "path", envPath)
	return nil
}

// Load resolves the configuration from the global viper instance.
func Load() (*Config, error) {
	return FromViper(viper.GetViper())
}

// FromViper resolves and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		DataPath:         ExpandPath(v.GetString(KeyDataPath)),
		TransactionsPath: ExpandPath(v.GetString(KeyTransactionsPath)),
		Backend:          strings.ToLower(strings.TrimSpace(v.GetString(KeyBackend))),
		DatabasePath:     ExpandPath(v.GetString(KeyDatabasePath)),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendText:
		if c.DataPath == "" {
			return fmt.Errorf("%w: %s is required for the text backend", common.ErrMissingConfig, KeyDataPath)
		}
		if c.TransactionsPath == "" {
			return fmt.Errorf("%w: %s is required for the text backend", common.ErrMissingConfig, KeyTransactionsPath)
		}
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: %s is required for the sqlite backend", common.ErrMissingConfig, KeyDatabasePath)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q (want %s or %s)",
			common.ErrInvalidConfig, c.Backend, BackendText, BackendSQLite)
	}

	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ExpandPath resolves a leading ~ to the home directory and then $VAR
// references, so data paths can be written as ~/stockroom/store_data.txt.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~" || strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
