// config.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the vault.
type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Backup     BackupConfig   `mapstructure:"backup"`
	AppVersion string         `mapstructure:"app_version"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// BackupConfig controls where exports land and how the backup key is
// derived.
type BackupConfig struct {
	Dir        string `mapstructure:"dir"`
	Iterations int    `mapstructure:"iterations"`
}

// loadConfig reads an optional config.yaml from dir and fills in defaults
// for everything it does not set. A missing file is not an error.
func loadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("database.path", filepath.Join(dir, "vault.db"))
	v.SetDefault("backup.dir", dir)
	v.SetDefault("backup.iterations", 10000)
	v.SetDefault("app_version", appVersion)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Backup.Iterations <= 0 {
		cfg.Backup.Iterations = 10000
	}
	return &cfg, nil
}

// defaultConfigDir returns the per-user data directory for the vault,
// creating it if needed.
func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	dir := filepath.Join(home, ".pwvault")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}
