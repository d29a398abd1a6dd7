// Package cmd contains the CLI commands for gitops.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kling-igor/gitops/internal/adapters/gitengine"
	"github.com/kling-igor/gitops/internal/adapters/journal"
	"github.com/kling-igor/gitops/internal/config"
	"github.com/kling-igor/gitops/internal/domain/ports"
)

var (
	// Version info (set from main)
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"

	// Global flags
	cfgFile  string
	verbose  bool
	repoFlag string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gitops",
	Short: "Version-control operations with compact status reporting",
	Long: `gitops drives an embedded version-control engine: repository
initialization, staging, committing, branching, tagging, cloning, and
checkout, plus a compact working-tree status report where each changed
path carries a short code string (A new, M modified, R renamed,
? ignored, D deleted, C conflicted, I staged).

Serve mode streams the same status report over HTTP/WebSocket so a
repository can be watched from another device.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information from the main package.
func SetVersionInfo(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.gitops.yaml or ~/.gitops/.gitops.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "path to repository (default: current directory)")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd displays version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gitops %s\n", version)
		fmt.Printf("  Build time: %s\n", buildTime)
		fmt.Printf("  Git commit: %s\n", gitCommit)
	},
}

// loadConfig loads configuration and applies the global --repo
// override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if repoFlag != "" {
		abs, err := filepath.Abs(repoFlag)
		if err != nil {
			return nil, fmt.Errorf("resolve repository path: %w", err)
		}
		cfg.Repository.Path = abs
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set output format
	if cfg.Logging.Format == "console" || verbose {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Add verbose logging if flag is set
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// openEngine opens the configured repository.
func openEngine(cfg *config.Config) (*gitengine.Engine, error) {
	return gitengine.Open(cfg.Repository.Path)
}

// identity builds a commit/tag signature from config.
func identity(cfg *config.Config) ports.Signature {
	return ports.Signature{Name: cfg.Identity.Name, Email: cfg.Identity.Email}
}

// recordOp journals a completed operation. Failures only warn: the
// journal is a convenience record, never a reason to fail the
// operation it describes.
func recordOp(cfg *config.Config, op, repoPath, result string, detail map[string]string) {
	if !cfg.Journal.Enabled {
		return
	}

	jnl, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		log.Warn().Err(err).Msg("could not open journal")
		return
	}
	defer func() { _ = jnl.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = jnl.Record(ctx, journal.Entry{
		Op:       op,
		RepoPath: repoPath,
		Result:   result,
		Detail:   detail,
	})
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("could not journal operation")
	}
}
