package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kling-igor/gitops/internal/adapters/gitengine"
	"github.com/kling-igor/gitops/internal/domain"
	"github.com/kling-igor/gitops/internal/domain/ports"
)

var (
	cloneUsername string
	clonePassword string
	cloneInsecure bool
	cloneCABundle string
	cloneDepth    int
	cloneQuiet    bool
)

var cloneCmd = &cobra.Command{
	Use:   "clone <url> [path]",
	Short: "Clone a remote repository",
	Long: `Clone a remote repository into a local directory. The target
directory defaults to the configured repository path. Credentials,
TLS trust material, and history depth come from flags, falling back
to the clone section of the config file.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		url := args[0]
		path := cfg.Repository.Path
		if len(args) == 2 {
			path = args[1]
		}

		opts := ports.CloneOptions{
			URL:      url,
			Path:     path,
			Insecure: cloneInsecure || cfg.Clone.Insecure,
			Depth:    cloneDepth,
		}
		if opts.Depth == 0 {
			opts.Depth = cfg.Clone.Depth
		}
		if !cloneQuiet {
			opts.Progress = os.Stderr
		}

		username := cloneUsername
		password := clonePassword
		if username == "" {
			username = cfg.Clone.Username
			password = cfg.Clone.Password
		}
		if username != "" {
			opts.Auth = func() (string, string, error) {
				if password == "" {
					return "", "", domain.ErrAuthRequired
				}
				return username, password, nil
			}
		}

		caFile := cloneCABundle
		if caFile == "" {
			caFile = cfg.Clone.CABundleFile
		}
		if caFile != "" {
			bundle, err := os.ReadFile(caFile)
			if err != nil {
				return fmt.Errorf("read CA bundle: %w", err)
			}
			opts.CABundle = bundle
		}

		engine, err := gitengine.Clone(cmd.Context(), opts)
		if err != nil {
			return err
		}

		recordOp(cfg, "clone", engine.Path(), "", map[string]string{"url": url})
		fmt.Printf("Cloned %s into %s\n", url, engine.Path())
		return nil
	},
}

func init() {
	cloneCmd.Flags().StringVar(&cloneUsername, "username", "", "username for the remote transfer")
	cloneCmd.Flags().StringVar(&clonePassword, "password", "", "password or token for the remote transfer")
	cloneCmd.Flags().BoolVar(&cloneInsecure, "insecure", false, "skip TLS certificate verification")
	cloneCmd.Flags().StringVar(&cloneCABundle, "ca-bundle", "", "path to a PEM CA bundle for TLS verification")
	cloneCmd.Flags().IntVar(&cloneDepth, "depth", 0, "limit history depth (0 clones everything)")
	cloneCmd.Flags().BoolVarP(&cloneQuiet, "quiet", "q", false, "suppress transfer progress")
}
