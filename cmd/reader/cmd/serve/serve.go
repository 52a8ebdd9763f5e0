package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adaptive-reader/cmd/reader/cmd/flags"
	"adaptive-reader/internal/app"
)

var port string

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides config and PORT")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend",
	Long: `Run the HTTP backend.

- Relays /api/ocr, /api/speech and /api/nlp requests to the configured scripts
- Proxies /api/ml/analyze to the ML service
- Stops gracefully on SIGINT or SIGTERM, letting running relays finish`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := flags.Load()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if port != "" {
			cfg.Server.Port = port
		}

		srv, cleanup, err := app.InitializeServer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}
		defer cleanup()

		if err := srv.Start(); err != nil {
			return err
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		case err, ok := <-srv.Err():
			if ok && err != nil {
				return err
			}
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
