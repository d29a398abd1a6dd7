package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kling-igor/gitops/internal/app"
)

var (
	serveHost string
	servePort int
	serveQR   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live repository status over HTTP and WebSocket",
	Long: `Start the status server: an HTTP API with the current report
plus a WebSocket stream that pushes a fresh report whenever the
working tree changes. A QR code with the connection details can be
printed for pairing another device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("qr") {
			cfg.Server.ShowQR = serveQR
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		application, err := app.New(cfg, engine, version)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Info().
			Str("repo", engine.Path()).
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("starting status server")

		return application.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "host interface to bind")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8765, "port to listen on")
	serveCmd.Flags().BoolVar(&serveQR, "qr", true, "print a pairing QR code on startup")
}
