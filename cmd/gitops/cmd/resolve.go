package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <revision>",
	Short: "Resolve a revision to a commit id",
	Long: `Resolve a symbolic revision (HEAD, a branch name, a tag name,
or a full or abbreviated commit id) to the full commit id it points
at.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		id, err := engine.ResolveReference(args[0])
		if err != nil {
			return err
		}

		fmt.Println(id)
		return nil
	},
}
