// Package config provides centralized default configuration values.
package config

// DefaultWatcherIgnorePatterns is the canonical list of patterns the
// file watcher skips. Patterns match directory names, file names, and
// glob-style suffixes. The repository's own metadata directory is
// always first: watching .git would turn every index write into a
// phantom working-tree change.
//
// Users can override via .gitops.yaml: watcher.ignore_patterns.
var DefaultWatcherIgnorePatterns = []string{
	".git",
	".gitops",
	"node_modules",
	".venv",
	"venv",
	"__pycache__",
	"*.pyc",
	".DS_Store",
	"Thumbs.db",
	"dist",
	"build",
	"coverage",
	"*.log",
	".idea",
	".vscode",
	"*.swp",
	"*.swo",
	"*~",
}
