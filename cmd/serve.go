package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/adn360mx/imgopt/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Long: `Starts the image optimizer web interface.

Pick an image, adjust the quality and max width sliders, press Optimize
and compare sizes before downloading the result.`,
	Example: `  # Start on the configured address (127.0.0.1:8080 by default)
  imgopt serve

  # Custom port
  imgopt serve --port 3000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "host to bind (overrides config)")
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-cmd.Context().Done():
		// Give server 5 seconds to shut down gracefully
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", zap.Error(err))
			return err
		}
		log.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
