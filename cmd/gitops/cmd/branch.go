package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	branchOverwrite bool
	branchDelete    bool
	branchRevision  string
)

var branchCmd = &cobra.Command{
	Use:   "branch [name [revision]]",
	Short: "List, create, or delete branches",
	Long: `With no arguments, list branches with the current one marked.
With a name, create a branch at the given revision (HEAD when
omitted); creating over an existing branch fails unless --overwrite
is given. With --delete, remove the named branch; the checked-out
branch can not be deleted.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if branchDelete {
				return fmt.Errorf("--delete requires a branch name")
			}
			branches, err := engine.ListBranches()
			if err != nil {
				return err
			}
			for _, b := range branches {
				marker := " "
				if b.Head {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, b.Name)
			}
			return nil
		}

		name := args[0]
		if branchDelete {
			if err := engine.DeleteBranch(name); err != nil {
				return err
			}
			recordOp(cfg, "branch", engine.Path(), "", map[string]string{"deleted": name})
			return nil
		}

		revision := branchRevision
		if len(args) == 2 {
			revision = args[1]
		}
		if err := engine.CreateBranch(name, revision, branchOverwrite); err != nil {
			return err
		}
		recordOp(cfg, "branch", engine.Path(), "", map[string]string{"created": name})
		return nil
	},
}

func init() {
	branchCmd.Flags().BoolVar(&branchOverwrite, "overwrite", false, "move the branch if it already exists")
	branchCmd.Flags().BoolVarP(&branchDelete, "delete", "d", false, "delete the named branch")
	branchCmd.Flags().StringVar(&branchRevision, "revision", "", "revision the new branch points at (default HEAD)")
}
