package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Crypter holds all configuration for the dbdcrypt binaries.
type Crypter struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Key sources
	KeyFeed    KeyFeedConfig `yaml:"key_feed"`
	StaticKeys bool          `yaml:"static_keys"` // bundled 8.4.0 table

	// Optional key cache
	Database DatabaseConfig `yaml:"database"`

	// Shells
	OutputDir string    `yaml:"output_dir"`
	Web       WebConfig `yaml:"web"`
}

// KeyFeedConfig describes the remote key list.
type KeyFeedConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	// Bounds connecting, migrating and each cache read or write.
	// Zero falls back to the key feed timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// WebConfig configures the HTTP shell.
type WebConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

// Addr returns host:port for net/http.
func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.BindAddress, w.Port)
}

// DefaultCrypter returns Crypter config with sensible defaults.
func DefaultCrypter() Crypter {
	return Crypter{
		LogLevel: "info",
		KeyFeed: KeyFeedConfig{
			Enabled: true,
			URL:     "https://keyapi.deadbyqueue.com/keys",
			Timeout: 5 * time.Second,
		},
		StaticKeys: true,
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "dbdcrypt",
			Password: "dbdcrypt",
			DBName:   "dbdcrypt",
			SSLMode:  "disable",
			Timeout:  5 * time.Second,
		},
		OutputDir: "Output",
		Web: WebConfig{
			BindAddress: "127.0.0.1",
			Port:        3000,
		},
	}
}

// LoadCrypter loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadCrypter(path string) (Crypter, error) {
	cfg := DefaultCrypter()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Database.Timeout <= 0 {
		cfg.Database.Timeout = cfg.KeyFeed.Timeout
	}

	return cfg, nil
}

// SlogLevel converts LogLevel to a slog.Level, defaulting to info.
func (c Crypter) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
