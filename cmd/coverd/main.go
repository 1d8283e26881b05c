package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backend"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	port       int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "coverd",
	Short: "Book cover gateway",
	Long: `coverd fronts a book catalog backend for the web client.

It generates book covers through the OpenAI Images API, saves them to the
catalog, and relays account and book requests to whichever backend address
the caller names (or the configured default).`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as yaml",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config and PORT)")

	rootCmd.AddCommand(serveCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*backendtypes.BackendConfig, error) {
	cfg, err := backendtypes.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if port != 0 {
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger builds a production logger, or a console logger when the
// configured format is "text"
func newLogger(cfg backendtypes.LoggingConfig, debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "text" {
		zcfg = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	server, err := backend.NewServer(*cfg, logger)
	if err != nil {
		return err
	}

	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal", zap.String("signal", sig.String()))
		close(stop)
	}()

	return server.ListenAndServeWithGracefulShutdown(stop)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Auth.APIPassword != "" {
		cfg.Auth.APIPassword = "********"
	}
	return backendtypes.WriteConfig(cmd.OutOrStdout(), cfg)
}
