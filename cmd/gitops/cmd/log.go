package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit history",
	Long:  `Walk the commit history from HEAD, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		entries, err := engine.Log(cmd.Context(), logLimit)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			fmt.Printf("%s %s  %s <%s>  %s\n",
				shortID(entry.ID),
				entry.When.Format("2006-01-02 15:04"),
				entry.Author,
				entry.Email,
				entry.Message,
			)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "limit the number of commits shown (0 shows all)")
}
