package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kling-igor/gitops/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Check default values
	if cfg.Server.Port != 8765 {
		t.Errorf("default Port = %d, want 8765", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("default Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if !cfg.Watcher.Enabled {
		t.Error("default Watcher.Enabled should be true")
	}
	if cfg.Watcher.DebounceMS != 100 {
		t.Errorf("default DebounceMS = %d, want 100", cfg.Watcher.DebounceMS)
	}
	if !cfg.Journal.Enabled {
		t.Error("default Journal.Enabled should be true")
	}
	if cfg.Journal.Path == "" {
		t.Error("default Journal.Path should be filled in by postProcess")
	}
	if cfg.Clone.Depth != 0 {
		t.Errorf("default Clone.Depth = %d, want 0", cfg.Clone.Depth)
	}
	if cfg.Status.IncludeIgnored {
		t.Error("default Status.IncludeIgnored should be false")
	}
	if !filepath.IsAbs(cfg.Repository.Path) {
		t.Errorf("Repository.Path = %s, want absolute", cfg.Repository.Path)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `
repository:
  path: "` + tempDir + `"

identity:
  name: "Test User"
  email: "test@example.com"

clone:
  username: "deploy"
  password: "secret"
  insecure: true
  depth: 1

server:
  port: 9000
  host: "0.0.0.0"
  show_qr: false

watcher:
  enabled: false
  debounce_ms: 200

journal:
  enabled: false

logging:
  level: debug
  format: json

status:
  include_ignored: true
`
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Check loaded values
	if cfg.Repository.Path != tempDir {
		t.Errorf("Repository.Path = %s, want %s", cfg.Repository.Path, tempDir)
	}
	if cfg.Identity.Name != "Test User" || cfg.Identity.Email != "test@example.com" {
		t.Errorf("Identity = %+v, want Test User <test@example.com>", cfg.Identity)
	}
	if cfg.Clone.Username != "deploy" || !cfg.Clone.Insecure || cfg.Clone.Depth != 1 {
		t.Errorf("Clone = %+v", cfg.Clone)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.ShowQR {
		t.Error("Server.ShowQR should be false")
	}
	if cfg.Watcher.Enabled {
		t.Error("Watcher.Enabled should be false")
	}
	if cfg.Watcher.DebounceMS != 200 {
		t.Errorf("DebounceMS = %d, want 200", cfg.Watcher.DebounceMS)
	}
	if cfg.Journal.Enabled {
		t.Error("Journal.Enabled should be false")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if !cfg.Status.IncludeIgnored {
		t.Error("Status.IncludeIgnored should be true")
	}
}

func TestLoad_EnvOverrides_ServerPort(t *testing.T) {
	t.Setenv("GITOPS_SERVER_PORT", "9123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9123 {
		t.Fatalf("Server.Port = %d, want 9123", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides_CloneCredentials(t *testing.T) {
	t.Setenv("GITOPS_CLONE_USERNAME", "deploy")
	t.Setenv("GITOPS_CLONE_PASSWORD", "token123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Credentials arrive through Config; nothing reads the environment
	// at clone time.
	if cfg.Clone.Username != "deploy" {
		t.Errorf("Clone.Username = %s, want deploy", cfg.Clone.Username)
	}
	if cfg.Clone.Password != "token123" {
		t.Errorf("Clone.Password = %s, want token123", cfg.Clone.Password)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Repository: RepositoryConfig{Path: "/tmp"},
			Server:     ServerConfig{Host: "127.0.0.1", Port: 8765},
			Watcher:    WatcherConfig{DebounceMS: 100},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:      "bad port",
			mutate:    func(cfg *Config) { cfg.Server.Port = 0 },
			wantField: "server.port",
		},
		{
			name:      "empty host",
			mutate:    func(cfg *Config) { cfg.Server.Host = "" },
			wantField: "server.host",
		},
		{
			name:      "negative debounce",
			mutate:    func(cfg *Config) { cfg.Watcher.DebounceMS = -1 },
			wantField: "watcher.debounce_ms",
		},
		{
			name:      "excessive debounce",
			mutate:    func(cfg *Config) { cfg.Watcher.DebounceMS = 20000 },
			wantField: "watcher.debounce_ms",
		},
		{
			name:      "bad identity email",
			mutate:    func(cfg *Config) { cfg.Identity.Email = "not-an-address" },
			wantField: "identity.email",
		},
		{
			name:      "negative clone depth",
			mutate:    func(cfg *Config) { cfg.Clone.Depth = -1 },
			wantField: "clone.depth",
		},
		{
			name:      "username without password",
			mutate:    func(cfg *Config) { cfg.Clone.Username = "deploy" },
			wantField: "clone.password",
		},
		{
			name:      "missing ca bundle",
			mutate:    func(cfg *Config) { cfg.Clone.CABundleFile = "/no/such/bundle.pem" },
			wantField: "clone.ca_bundle_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestHasIdentity(t *testing.T) {
	cfg := &Config{}
	if cfg.HasIdentity() {
		t.Error("empty identity reported as configured")
	}

	cfg.Identity = IdentityConfig{Name: "Test User", Email: "test@example.com"}
	if !cfg.HasIdentity() {
		t.Error("full identity reported as missing")
	}
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if dir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should end with .gitops
	if filepath.Base(dir) != ".gitops" {
		t.Errorf("GetConfigDir() = %s, want to end with .gitops", dir)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	// This test actually creates the config directory
	// Skip if we don't want side effects
	if testing.Short() {
		t.Skip("skipping in short mode")
	}

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}

	// Check that directory exists
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("failed to stat config dir: %v", err)
	}

	if !info.IsDir() {
		t.Errorf("config path %s is not a directory", dir)
	}
}
