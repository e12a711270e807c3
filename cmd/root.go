/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kugo-bot/kugo/internal/config"
	"github.com/kugo-bot/kugo/internal/credential"
	"github.com/kugo-bot/kugo/internal/host"
	"github.com/kugo-bot/kugo/internal/player"
	"github.com/kugo-bot/kugo/internal/session"
	"github.com/kugo-bot/kugo/pkg/kugou"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	flagUser     string
	flagAPI      string
	flagLogLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kugo",
	Short: "Kugou catalog companion",
	Long: `kugo is a companion for a self-hosted Kugou music gateway.

It resolves free-text searches to playable stream URLs, remembers each
user's last results so a numbered follow-up selection works, expands
playlists into a paced playback queue, and manages the QR login flow
that unlocks higher-quality (VIP) playback.

Resolved URLs are delivered to the playback side-channel; by default
they are printed so they can be piped into a player or audio bot.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Identity to act as (default: user_id from config)")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "Gateway address (default: api_address from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// app bundles the wired components a command needs.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	identity string
	client   *kugou.Client
	creds    *credential.Store
	sessions *session.Store
	console  *host.Console
	playback host.Playback
	resolver *player.Resolver
}

// newApp loads configuration and wires the client, stores, and
// side-channels for one command invocation.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := setupLogger(flagLogLevel)

	apiAddress := cfg.APIAddress
	if flagAPI != "" {
		apiAddress = flagAPI
	}
	identity := cfg.UserID
	if flagUser != "" {
		identity = flagUser
	}

	client, err := kugou.NewClient(kugou.Config{
		APIAddress: apiAddress,
		Timeout:    time.Duration(cfg.RequestTimeout) * time.Second,
		Logger:     sdkLogger{logger: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway client: %w", err)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	creds, err := credential.Open(
		filepath.Join(dataDir, "credentials.db"),
		filepath.Join(dataDir, "loginToken.txt"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	sessions := session.Open(filepath.Join(dataDir, "sessions.json"))
	console := host.NewConsole(os.Stdout)

	return &app{
		cfg:      cfg,
		logger:   logger,
		identity: identity,
		client:   client,
		creds:    creds,
		sessions: sessions,
		console:  console,
		playback: host.NewLogPlayback(os.Stdout, logger),
		resolver: player.NewResolver(client.Song(), creds, logger),
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if err := a.creds.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Error closing credential store")
	}
}

// sdkLogger adapts zerolog to the SDK's optional Logger interface.
type sdkLogger struct {
	logger zerolog.Logger
}

func (l sdkLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logLevel string) zerolog.Logger {
	level := zerolog.WarnLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	logger := zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger().
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	return logger
}
