package config

import (
	"net/mail"
	"os"

	"github.com/kling-igor/gitops/internal/domain"
)

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if err := validateRepository(&cfg.Repository); err != nil {
		return err
	}
	if err := validateIdentity(&cfg.Identity); err != nil {
		return err
	}
	if err := validateClone(&cfg.Clone); err != nil {
		return err
	}
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := validateWatcher(&cfg.Watcher); err != nil {
		return err
	}
	return nil
}

func validateRepository(cfg *RepositoryConfig) error {
	// postProcess already absolutized the path; it may not exist yet
	// (init and clone create it), so only reject non-directories.
	info, err := os.Stat(cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return domain.NewValidationError("repository.path", err.Error())
	}
	if !info.IsDir() {
		return domain.NewValidationError("repository.path", "not a directory: "+cfg.Path)
	}
	return nil
}

func validateIdentity(cfg *IdentityConfig) error {
	// Identity is optional at load time; commit and tag operations
	// reject a missing identity when they run. Only the shape of a
	// configured email is checked here.
	if cfg.Email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(cfg.Email); err != nil {
		return domain.NewValidationError("identity.email", "not a valid address: "+cfg.Email)
	}
	return nil
}

func validateClone(cfg *CloneConfig) error {
	if cfg.Depth < 0 {
		return domain.NewValidationError("clone.depth", "cannot be negative")
	}
	if cfg.Username != "" && cfg.Password == "" {
		return domain.NewValidationError("clone.password", "required when clone.username is set")
	}
	if cfg.CABundleFile != "" {
		if err := validateExistingFile(cfg.CABundleFile, "clone.ca_bundle_file"); err != nil {
			return err
		}
	}
	return nil
}

func validateExistingFile(path, fieldName string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewValidationError(fieldName, "does not exist: "+path)
		}
		return domain.NewValidationError(fieldName, err.Error())
	}
	if info.IsDir() {
		return domain.NewValidationError(fieldName, "must be a file, not a directory: "+path)
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return domain.NewValidationError("server.port", "must be between 1 and 65535")
	}
	if cfg.Host == "" {
		return domain.NewValidationError("server.host", "cannot be empty")
	}
	return nil
}

func validateWatcher(cfg *WatcherConfig) error {
	if cfg.DebounceMS < 0 {
		return domain.NewValidationError("watcher.debounce_ms", "cannot be negative")
	}
	if cfg.DebounceMS > 10000 {
		return domain.NewValidationError("watcher.debounce_ms", "cannot exceed 10000ms")
	}
	return nil
}
