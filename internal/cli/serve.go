package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/receipt-crop/internal/httpapi"
	"github.com/ironsheep/receipt-crop/internal/logger"
)

const (
	shutdownTimeout = 30 * time.Second

	// writeGrace lets a handler that hit the request timeout still send
	// its 504.
	writeGrace = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP front-end.

Endpoints:
  GET  /health          liveness check
  POST /crop_receipt    multipart field "image", returns image/jpeg
  POST /detect_receipt  multipart field "image", returns the JSON report

Examples:
  receipt-crop serve --port 5001
  receipt-crop serve --config /etc/receipt-crop.toml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (overrides config)")
	serveCmd.Flags().IntP("port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, p, err := loadPipeline()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("host") {
		if cfg.Host, err = cmd.Flags().GetString("host"); err != nil {
			return fmt.Errorf("getting host flag: %w", err)
		}
	}
	if cmd.Flags().Changed("port") {
		if cfg.Port, err = cmd.Flags().GetInt("port"); err != nil {
			return fmt.Errorf("getting port flag: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      httpapi.NewHandler(p, cfg),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + writeGrace,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.ServerAddress(),
			"timeout": cfg.RequestTimeout,
		}).Info("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Logger.Info("Server exited")
	return nil
}
