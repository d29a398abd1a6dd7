package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var addAll bool

var addCmd = &cobra.Command{
	Use:   "add [path...]",
	Short: "Stage files into the index",
	Long: `Stage the given paths into the index. With --all, every
change in the working tree is staged and paths are not required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !addAll && len(args) == 0 {
			return fmt.Errorf("nothing specified: give paths or use --all")
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		if addAll {
			if err := engine.StageAll(); err != nil {
				return err
			}
			recordOp(cfg, "add", engine.Path(), "", map[string]string{"all": "true"})
			return nil
		}

		for _, path := range args {
			if err := engine.Stage(path); err != nil {
				return fmt.Errorf("stage %s: %w", path, err)
			}
		}
		recordOp(cfg, "add", engine.Path(), "", map[string]string{"paths": strings.Join(args, ",")})
		return nil
	},
}

func init() {
	addCmd.Flags().BoolVarP(&addAll, "all", "A", false, "stage all working-tree changes")
}
