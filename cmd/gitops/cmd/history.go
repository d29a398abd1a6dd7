package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kling-igor/gitops/internal/adapters/journal"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the operation journal for this repository",
	Long: `List recent operations recorded in the local journal for the
configured repository, newest first. The journal lives outside the
repository and survives re-clones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !cfg.Journal.Enabled {
			return fmt.Errorf("journal is disabled in configuration")
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		jnl, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer func() { _ = jnl.Close() }()

		entries, err := jnl.Recent(cmd.Context(), engine.Path(), historyLimit)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			line := fmt.Sprintf("%s  %-8s %s",
				entry.CreatedAt.Format("2006-01-02 15:04:05"),
				entry.Op,
				entry.Result,
			)
			if detail := formatDetail(entry.Detail); detail != "" {
				line += "  " + detail
			}
			fmt.Println(line)
		}
		return nil
	},
}

func formatDetail(detail map[string]string) string {
	if len(detail) == 0 {
		return ""
	}
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, detail[k]))
	}
	return strings.Join(parts, " ")
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "limit the number of entries shown")
}
