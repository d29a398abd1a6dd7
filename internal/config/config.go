// Package config handles configuration management for gitops.
//
// Everything the application needs (repository path, commit identity,
// clone credentials, certificate policy) is materialized into a Config
// up front and passed down explicitly. Call sites never read process
// environment or other ambient state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Identity   IdentityConfig   `mapstructure:"identity" yaml:"identity"`
	Clone      CloneConfig      `mapstructure:"clone" yaml:"clone"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Watcher    WatcherConfig    `mapstructure:"watcher" yaml:"watcher"`
	Journal    JournalConfig    `mapstructure:"journal" yaml:"journal"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Status     StatusConfig     `mapstructure:"status" yaml:"status"`
}

// RepositoryConfig holds repository-related configuration.
type RepositoryConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// IdentityConfig holds the author/committer identity used for commits
// and annotated tags.
type IdentityConfig struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Email string `mapstructure:"email" yaml:"email"`
}

// CloneConfig holds explicit credential and certificate material for
// clone operations.
type CloneConfig struct {
	Username     string `mapstructure:"username" yaml:"username"`
	Password     string `mapstructure:"password" yaml:"password"`
	Insecure     bool   `mapstructure:"insecure" yaml:"insecure"`
	CABundleFile string `mapstructure:"ca_bundle_file" yaml:"ca_bundle_file"`
	Depth        int    `mapstructure:"depth" yaml:"depth"`
}

// ServerConfig holds serve-mode configuration.
type ServerConfig struct {
	Host   string `mapstructure:"host" yaml:"host"`
	Port   int    `mapstructure:"port" yaml:"port"`
	ShowQR bool   `mapstructure:"show_qr" yaml:"show_qr"`
}

// WatcherConfig holds file watcher configuration.
type WatcherConfig struct {
	Enabled        bool     `mapstructure:"enabled" yaml:"enabled"`
	DebounceMS     int      `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	IgnorePatterns []string `mapstructure:"ignore_patterns" yaml:"ignore_patterns"`
}

// JournalConfig holds operation journal configuration.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StatusConfig holds status report configuration.
type StatusConfig struct {
	IncludeIgnored bool `mapstructure:"include_ignored" yaml:"include_ignored"`
}

// Load loads configuration from files and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default search paths
		v.SetConfigName(".gitops")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gitops")
		v.AddConfigPath("/etc/gitops")
	}

	// Environment variable prefix
	v.SetEnvPrefix("GITOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file (optional - not an error if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Post-process configuration
	if err := postProcess(&cfg); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Repository defaults
	v.SetDefault("repository.path", "")

	// Identity defaults: empty, commit/tag operations validate at use
	v.SetDefault("identity.name", "")
	v.SetDefault("identity.email", "")

	// Clone defaults
	v.SetDefault("clone.username", "")
	v.SetDefault("clone.password", "")
	v.SetDefault("clone.insecure", false)
	v.SetDefault("clone.ca_bundle_file", "")
	v.SetDefault("clone.depth", 0)

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8765)
	v.SetDefault("server.show_qr", true)

	// Watcher defaults - uses centralized patterns from defaults.go
	v.SetDefault("watcher.enabled", true)
	v.SetDefault("watcher.debounce_ms", 100)
	v.SetDefault("watcher.ignore_patterns", DefaultWatcherIgnorePatterns)

	// Journal defaults
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Status defaults
	v.SetDefault("status.include_ignored", false)
}

// postProcess applies post-processing to configuration.
func postProcess(cfg *Config) error {
	// If repository path is empty, use current directory
	if cfg.Repository.Path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		cfg.Repository.Path = cwd
	}

	// Resolve to absolute path
	absPath, err := filepath.Abs(cfg.Repository.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve repository path: %w", err)
	}
	cfg.Repository.Path = absPath

	// Journal lives under the user config dir unless placed explicitly
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		dir, err := GetConfigDir()
		if err != nil {
			return fmt.Errorf("failed to resolve journal path: %w", err)
		}
		cfg.Journal.Path = filepath.Join(dir, "journal.db")
	}

	return nil
}

// HasIdentity reports whether a commit identity is configured.
func (c *Config) HasIdentity() bool {
	return c.Identity.Name != "" && c.Identity.Email != ""
}

// GetConfigDir returns the user config directory for gitops.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".gitops"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
