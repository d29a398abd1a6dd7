package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	commitMessage     string
	commitAuthorName  string
	commitAuthorEmail string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the staged index as a commit",
	Long: `Serialize the staged index into a tree and record it as a
commit on the current branch. The author identity comes from the
identity section of the config file unless overridden by flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		sig := identity(cfg)
		if commitAuthorName != "" {
			sig.Name = commitAuthorName
		}
		if commitAuthorEmail != "" {
			sig.Email = commitAuthorEmail
		}

		result, err := engine.Commit(cmd.Context(), commitMessage, sig)
		if err != nil {
			return err
		}

		recordOp(cfg, "commit", engine.Path(), result.ID, map[string]string{
			"tree":    result.TreeID,
			"message": commitMessage,
		})
		fmt.Printf("[%s] %s\n", shortID(result.ID), result.Message)
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	commitCmd.Flags().StringVar(&commitAuthorName, "author-name", "", "override the configured author name")
	commitCmd.Flags().StringVar(&commitAuthorEmail, "author-email", "", "override the configured author email")
	_ = commitCmd.MarkFlagRequired("message")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
