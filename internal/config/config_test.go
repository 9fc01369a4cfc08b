package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "store_data.txt", cfg.DataPath)
	assert.Equal(t, "transactions.txt", cfg.TransactionsPath)
	assert.Equal(t, BackendText, cfg.Backend)
	assert.Equal(t, "store_data.db", cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestFromViper_Overrides(t *testing.T) {
	t.Setenv("STOCK_DIR", "/srv/shop")

	v := viper.New()
	v.Set(KeyDataPath, "$STOCK_DIR/data.txt")
	v.Set(KeyBackend, " SQLite ")
	v.Set(KeyDatabasePath, "$STOCK_DIR/shop.db")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/shop/data.txt", cfg.DataPath)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/srv/shop/shop.db", cfg.DatabasePath)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		DataPath:         "data.txt",
		TransactionsPath: "tx.txt",
		Backend:          BackendText,
		DatabasePath:     "data.db",
		LogLevel:         "debug",
	}

	tests := []struct {
		wantErr error
		mutate  func(*Config)
		name    string
	}{
		{name: "valid text", mutate: func(*Config) {}},
		{name: "valid sqlite without data path", mutate: func(c *Config) {
			c.Backend = BackendSQLite
			c.DataPath = ""
		}},
		{name: "unknown backend", wantErr: common.ErrInvalidConfig, mutate: func(c *Config) { c.Backend = "csv" }},
		{name: "missing data path", wantErr: common.ErrMissingConfig, mutate: func(c *Config) { c.DataPath = "" }},
		{name: "missing transactions path", wantErr: common.ErrMissingConfig, mutate: func(c *Config) { c.TransactionsPath = "" }},
		{name: "missing database path", wantErr: common.ErrMissingConfig, mutate: func(c *Config) {
			c.Backend = BackendSQLite
			c.DatabasePath = ""
		}},
		{name: "bad log level", wantErr: common.ErrInvalidConfig, mutate: func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	// Missing file is fine.
	require.NoError(t, LoadDotEnv(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STOCKROOM_TEST_BACKEND=sqlite\n"), 0600))
	t.Setenv("STOCKROOM_TEST_BACKEND", "")
	require.NoError(t, os.Unsetenv("STOCKROOM_TEST_BACKEND"))

	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "sqlite", os.Getenv("STOCKROOM_TEST_BACKEND"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("STOCKROOM_TEST_DIR", "/tmp/stock")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/data.txt", filepath.Join(home, "data.txt")},
		{"$STOCKROOM_TEST_DIR/data.txt", "/tmp/stock/data.txt"},
		{"plain.txt", "plain.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
