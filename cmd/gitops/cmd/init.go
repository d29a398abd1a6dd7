package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kling-igor/gitops/internal/adapters/gitengine"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a new repository",
	Long: `Initialize a new repository at the given path, or at the
configured repository path when no argument is given. Fails if a
repository already exists there.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := cfg.Repository.Path
		if len(args) == 1 {
			path = args[0]
		}

		engine, err := gitengine.Init(path)
		if err != nil {
			return err
		}

		recordOp(cfg, "init", engine.Path(), "", nil)
		fmt.Printf("Initialized empty repository in %s\n", engine.Path())
		return nil
	},
}
