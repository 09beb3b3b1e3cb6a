// cmd/server/main.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tennisverein/courtbook/internal/config"
	"github.com/tennisverein/courtbook/internal/db"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "courtbook",
	Short:         "Court booking for tennis clubs",
	Long:          "Courtbook serves the court booking API and offers admin maintenance commands.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	defaultPath := os.Getenv("COURTBOOK_CONFIG")
	if defaultPath == "" {
		defaultPath = "config/app.yaml"
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "Path to the YAML configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	setupLogger(cfg)
	return cfg, nil
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	zerolog.SetGlobalLevel(logLevel(cfg))

	var console io.Writer = os.Stderr
	if cfg.App.Environment == "development" {
		console = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	writer := console
	if cfg.Logging.File != "" {
		writer = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAgeDays,
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Str("app", cfg.App.Name).Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// logLevel resolves the configured level. The enable_debug feature flag
// forces debug output regardless of logging.level.
func logLevel(cfg *config.Config) zerolog.Level {
	if cfg.Features.EnableDebug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// openDatabase loads config and opens the database for one-shot commands.
func openDatabase() (*config.Config, *db.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, database, nil
}
