// Package app wires the serve-mode components together: engine, event
// hub, file watcher, operation journal, and the HTTP/WebSocket server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/rs/zerolog/log"

	"github.com/kling-igor/gitops/internal/adapters/journal"
	"github.com/kling-igor/gitops/internal/adapters/watcher"
	"github.com/kling-igor/gitops/internal/config"
	"github.com/kling-igor/gitops/internal/domain"
	"github.com/kling-igor/gitops/internal/domain/events"
	"github.com/kling-igor/gitops/internal/domain/ports"
	"github.com/kling-igor/gitops/internal/hub"
	"github.com/kling-igor/gitops/internal/pairing"
	"github.com/kling-igor/gitops/internal/server/statushttp"
)

// heartbeatInterval paces application-level heartbeat events so
// stream clients can detect a stalled server beyond ws ping/pong.
const heartbeatInterval = 30 * time.Second

// journalPollInterval paces the scan for operations journaled by CLI
// commands running against the same repository. New entries become
// operation_completed events on the stream.
const journalPollInterval = 5 * time.Second

// journalPollLimit bounds how many journal rows one poll reads.
const journalPollLimit = 50

// App runs serve mode: it watches the repository, re-scans the working
// tree on changes, and streams status to connected clients.
type App struct {
	cfg     *config.Config
	version string
	engine  ports.Engine

	hub         *hub.Hub
	fileWatcher *watcher.Watcher
	journal     *journal.Journal
	httpServer  *statushttp.Server
	qrGenerator *pairing.QRGenerator

	sessionID string
	startTime time.Time

	// lastOpSeen marks how far the journal has been replayed onto the
	// stream. Touched only by the Start loop goroutine.
	lastOpSeen time.Time

	mu      sync.RWMutex
	running bool
}

// New creates a new App around an open engine.
func New(cfg *config.Config, engine ports.Engine, version string) (*App, error) {
	return &App{
		cfg:       cfg,
		version:   version,
		engine:    engine,
		hub:       hub.New(),
		sessionID: uuid.New().String(),
	}, nil
}

// Start starts the application and blocks until the context is
// cancelled.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("application is already running")
	}
	a.running = true
	a.startTime = time.Now()
	a.mu.Unlock()

	if err := a.hub.Start(); err != nil {
		return fmt.Errorf("failed to start event hub: %w", err)
	}

	// Trace every broadcast while debugging
	a.hub.Subscribe(hub.NewLogSubscriber("internal-logger", func(event events.Event) {
		log.Trace().
			Str("event_type", string(event.Type())).
			Time("timestamp", event.Timestamp()).
			Msg("event broadcast")
	}))

	if a.cfg.Journal.Enabled {
		jnl, err := journal.Open(a.cfg.Journal.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", a.cfg.Journal.Path).Msg("journal unavailable, continuing without it")
		} else {
			a.journal = jnl
		}
	}

	// File changes drive status refreshes
	refresher := hub.NewFilteredSubscriber(hub.NewLogSubscriber("status-refresher", func(events.Event) {
		a.refreshStatus(ctx)
	}))
	refresher.SubscribeType(events.EventTypeFileChanged)
	a.hub.Subscribe(refresher)

	if a.cfg.Watcher.Enabled {
		a.fileWatcher = watcher.NewWatcher(
			a.cfg.Repository.Path,
			a.hub,
			a.cfg.Watcher.DebounceMS,
			a.cfg.Watcher.IgnorePatterns,
		)
		if err := a.fileWatcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	a.httpServer = statushttp.NewServer(
		a.cfg.Server.Host,
		a.cfg.Server.Port,
		a.engine,
		a.hub,
		a.journal,
		logger,
		a.version,
		a.cfg.Status.IncludeIgnored,
	)
	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("failed to start status server: %w", err)
	}

	repoName := filepath.Base(a.cfg.Repository.Path)
	a.qrGenerator = pairing.NewQRGenerator(pairing.AdvertiseHost(a.cfg.Server.Host), a.cfg.Server.Port, a.sessionID, repoName)

	a.hub.Publish(events.NewSessionStartEvent(a.sessionID, a.cfg.Repository.Path, repoName, a.version))
	a.printConnectionInfo()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	journalPoll := time.NewTicker(journalPollInterval)
	defer journalPoll.Stop()
	a.lastOpSeen = time.Now()

	var sequence int64
	for {
		select {
		case <-ctx.Done():
			return a.shutdown()
		case <-heartbeat.C:
			sequence++
			a.hub.Publish(events.NewHeartbeatEvent(sequence, a.UptimeSeconds()))
		case <-journalPoll.C:
			a.publishCompletedOperations(ctx)
		}
	}
}

// publishCompletedOperations turns journal entries recorded since the
// last poll into operation_completed events. CLI commands journal
// their operations from separate processes, so this is how the stream
// learns about commits, branches, and tags made while serving.
func (a *App) publishCompletedOperations(ctx context.Context) {
	if a.journal == nil {
		return
	}

	entries, err := a.journal.Recent(ctx, a.cfg.Repository.Path, journalPollLimit)
	if err != nil {
		log.Warn().Err(err).Msg("journal poll failed")
		return
	}

	// Recent returns newest first; replay in recorded order.
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if !entry.CreatedAt.After(a.lastOpSeen) {
			continue
		}
		a.lastOpSeen = entry.CreatedAt

		payload := events.OperationCompletedPayload{
			Operation: entry.Op,
			Success:   true,
			ResultID:  entry.Result,
		}
		for _, key := range []string{"branch", "created", "deleted"} {
			if ref, ok := entry.Detail[key]; ok {
				payload.Ref = ref
				break
			}
		}
		a.hub.Publish(events.NewOperationCompletedEvent(payload))

		log.Debug().
			Str("op", entry.Op).
			Str("result", entry.Result).
			Msg("journaled operation published")
	}
}

// refreshStatus runs one scan and publishes the result.
func (a *App) refreshStatus(ctx context.Context) {
	descriptors, err := a.engine.Scan(ctx, ports.ScanOptions{IncludeIgnored: a.cfg.Status.IncludeIgnored})
	if err != nil {
		log.Warn().Err(err).Msg("status refresh failed")
		a.hub.Publish(events.NewErrorEvent(domain.ErrorCode(err), "status scan failed", "", nil))
		return
	}

	branch, err := a.engine.HeadBranch()
	if err != nil {
		branch = ""
	}

	a.hub.Publish(events.NewStatusChangedEvent(branch, descriptors))
}

// shutdown stops components in reverse start order.
func (a *App) shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return nil
	}
	a.running = false

	a.hub.Publish(events.NewSessionEndEvent(a.sessionID, "shutdown"))

	if a.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.httpServer.Stop(ctx); err != nil {
			log.Warn().Err(err).Msg("error stopping status server")
		}
	}

	if a.fileWatcher != nil {
		if err := a.fileWatcher.Stop(); err != nil {
			log.Warn().Err(err).Msg("error stopping file watcher")
		}
	}

	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing journal")
		}
	}

	if err := a.hub.Stop(); err != nil {
		log.Warn().Err(err).Msg("error stopping event hub")
	}

	log.Info().Msg("serve mode stopped")
	return nil
}

// printConnectionInfo renders the boxed endpoint summary and QR code.
func (a *App) printConnectionInfo() {
	repoName := filepath.Base(a.cfg.Repository.Path)
	host := pairing.AdvertiseHost(a.cfg.Server.Host)
	httpURL := fmt.Sprintf("http://%s:%d/api", host, a.cfg.Server.Port)
	wsURL := fmt.Sprintf("ws://%s:%d/ws", host, a.cfg.Server.Port)

	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════════╗")
	fmt.Println("║                     gitops ready                           ║")
	fmt.Println("╠════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Session ID: %-46s ║\n", a.sessionID[:8]+"...")
	fmt.Printf("║  Repository: %-46s ║\n", truncateString(repoName, 46))
	fmt.Println("╠════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API:        %-46s ║\n", truncateString(httpURL, 46))
	fmt.Printf("║  WebSocket:  %-46s ║\n", truncateString(wsURL, 46))
	fmt.Println("╚════════════════════════════════════════════════════════════╝")
	fmt.Println()

	if a.cfg.Server.ShowQR && a.qrGenerator != nil {
		a.qrGenerator.PrintToTerminal()
	}
}

// SessionID returns the current session ID.
func (a *App) SessionID() string {
	return a.sessionID
}

// Hub returns the event hub.
func (a *App) Hub() *hub.Hub {
	return a.hub
}

// UptimeSeconds returns how long the app has been running, zero
// before Start.
func (a *App) UptimeSeconds() int64 {
	if a.startTime.IsZero() {
		return 0
	}
	return int64(time.Since(a.startTime).Seconds())
}

// truncateString truncates a string to maxLen characters.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
