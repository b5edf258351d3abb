package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/ftptube-go/pkg/config"
	"github.com/denysvitali/ftptube-go/pkg/server"
	"github.com/denysvitali/ftptube-go/pkg/telemetry"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ftptube HTTP server",
	Long: `Start the HTTP server exposing the FTP browser pages, the FTP session API
and the YouTube comment endpoints.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().IntP("port", "p", 8000, "Port to listen on")
	serverCmd.Flags().Bool("cookie-secure", false, "Mark the session cookie as Secure")
	serverCmd.Flags().String("session-backend", config.BackendMemory, "Session store backend (memory, redis)")
	serverCmd.Flags().Duration("session-ttl", time.Hour, "Lifetime of a listing session")
	serverCmd.Flags().String("redis-url", "", "Redis URL for the redis session backend")
	serverCmd.Flags().Duration("ftp-timeout", 10*time.Second, "FTP dial timeout")
	serverCmd.Flags().Bool("ftp-explicit-tls", false, "Use explicit FTPS when connecting")
	serverCmd.Flags().String("youtube-api-key", "", "YouTube Data API key")
	serverCmd.Flags().Bool("enable-metrics", true, "Expose Prometheus metrics on /metrics")
	serverCmd.Flags().Bool("enable-telemetry", false, "Enable OpenTelemetry tracing")
	serverCmd.Flags().String("otel-endpoint", "", "OpenTelemetry endpoint (if empty, uses auto-export)")

	// Bind flags to viper
	_ = viper.BindPFlag("server.port", serverCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.cookie_secure", serverCmd.Flags().Lookup("cookie-secure"))
	_ = viper.BindPFlag("session.backend", serverCmd.Flags().Lookup("session-backend"))
	_ = viper.BindPFlag("session.ttl", serverCmd.Flags().Lookup("session-ttl"))
	_ = viper.BindPFlag("session.redis_url", serverCmd.Flags().Lookup("redis-url"))
	_ = viper.BindPFlag("ftp.dial_timeout", serverCmd.Flags().Lookup("ftp-timeout"))
	_ = viper.BindPFlag("ftp.explicit_tls", serverCmd.Flags().Lookup("ftp-explicit-tls"))
	_ = viper.BindPFlag("youtube.api_key", serverCmd.Flags().Lookup("youtube-api-key"))
	_ = viper.BindPFlag("metrics.enabled", serverCmd.Flags().Lookup("enable-metrics"))
	_ = viper.BindPFlag("telemetry.enabled", serverCmd.Flags().Lookup("enable-telemetry"))
	_ = viper.BindPFlag("telemetry.endpoint", serverCmd.Flags().Lookup("otel-endpoint"))
}

func runServer(cmd *cobra.Command, args []string) error {
	logger := GetLogger()
	logger.Info("Starting ftptube server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize telemetry if enabled
	if cfg.Telemetry.Enabled {
		logger.Info("Initializing OpenTelemetry")
		cleanup, err := telemetry.Initialize(cmd.Context(), cfg.Telemetry, logger)
		if err != nil {
			logger.Warnf("Failed to initialize telemetry: %v", err)
		} else {
			defer cleanup()
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for interrupt signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-interrupt:
		logger.Infof("Received signal %v, shutting down...", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("Server shutdown error: %v", err)
			return err
		}

		logger.Info("Server stopped gracefully")
		return nil
	}
}
