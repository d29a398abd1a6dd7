package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kling-igor/gitops/internal/adapters/gitengine"
	"github.com/kling-igor/gitops/internal/adapters/watcher"
	"github.com/kling-igor/gitops/internal/config"
	"github.com/kling-igor/gitops/internal/domain/events"
	"github.com/kling-igor/gitops/internal/domain/ports"
	"github.com/kling-igor/gitops/internal/domain/status"
	"github.com/kling-igor/gitops/internal/hub"
)

var (
	statusIncludeIgnored bool
	statusJSON           bool
	statusWatch          bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report working-tree status",
	Long: `Scan the working tree and print one line per changed path with
its compact status code: A new, M modified, R renamed, ? ignored,
D deleted, C conflicted, I staged. Codes concatenate when a path is
in several states at once, always in that order.

With --watch, the report is re-printed whenever the working tree
changes, until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		includeIgnored := statusIncludeIgnored || cfg.Status.IncludeIgnored

		if !statusWatch {
			return printStatus(cmd.Context(), engine, includeIgnored)
		}
		return watchStatus(cfg, engine, includeIgnored)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusIncludeIgnored, "include-ignored", false, "include ignored paths in the report")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "emit the report as JSON")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "re-print the report on working-tree changes")
}

func printStatus(ctx context.Context, engine *gitengine.Engine, includeIgnored bool) error {
	descriptors, err := engine.Scan(ctx, ports.ScanOptions{IncludeIgnored: includeIgnored})
	if err != nil {
		return err
	}
	entries := status.Report(descriptors)

	if statusJSON {
		branch, err := engine.HeadBranch()
		if err != nil {
			branch = ""
		}
		payload := struct {
			Branch  string               `json:"branch"`
			Entries []status.StatusEntry `json:"entries"`
		}{Branch: branch, Entries: entries}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	for _, entry := range entries {
		fmt.Printf("%s %s\n", entry.Status, entry.Path)
	}
	return nil
}

// watchStatus runs the file watcher over the working tree and
// re-prints the report after every debounced change batch.
func watchStatus(cfg *config.Config, engine *gitengine.Engine, includeIgnored bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eventHub := hub.New()
	if err := eventHub.Start(); err != nil {
		return err
	}
	defer func() { _ = eventHub.Stop() }()

	sub := hub.NewChannelSubscriber("status-watch", 16)
	filtered := hub.NewFilteredSubscriber(sub)
	filtered.SubscribeType(events.EventTypeFileChanged)
	eventHub.Subscribe(filtered)

	fw := watcher.NewWatcher(engine.Path(), eventHub, cfg.Watcher.DebounceMS, cfg.Watcher.IgnorePatterns)
	if err := fw.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = fw.Stop() }()

	if err := printStatus(ctx, engine, includeIgnored); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Events():
			// A burst of changes yields one re-print, not one per file.
			drainEvents(sub)
			fmt.Println("---")
			if err := printStatus(ctx, engine, includeIgnored); err != nil {
				log.Warn().Err(err).Msg("status scan failed")
			}
		}
	}
}

// drainEvents discards queued events so coalesced change bursts do not
// trigger redundant scans.
func drainEvents(sub *hub.ChannelSubscriber) {
	for {
		select {
		case <-sub.Events():
		default:
			return
		}
	}
}
