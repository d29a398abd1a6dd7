package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkoutDiscard bool

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch>",
	Short: "Switch the working tree to a branch",
	Long: `Switch the working tree and HEAD to the named branch. Fails
when the working tree has uncommitted changes unless --discard is
given, which throws them away.`,
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

		branch := args[0]
		if err := engine.Checkout(branch, checkoutDiscard); err != nil {
			return err
		}

		recordOp(cfg, "checkout", engine.Path(), "", map[string]string{"branch": branch})
		fmt.Printf("Switched to branch '%s'\n", branch)
		return nil
	},
}

func init() {
	checkoutCmd.Flags().BoolVar(&checkoutDiscard, "discard", false, "discard uncommitted working-tree changes")
}
