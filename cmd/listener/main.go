package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rickgao/zoom-events/internal/auth"
	"github.com/rickgao/zoom-events/internal/config"
	"github.com/rickgao/zoom-events/internal/connection"
	"github.com/rickgao/zoom-events/internal/dispatch"
	"github.com/rickgao/zoom-events/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (empty = read environment)")
	logLevel := flag.String("log-level", "", "override log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "override log format (text, json)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration
	cfg, err := loadConfig(*configPath, *logLevel, *logFormat)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := newLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	logger.Info("starting listener",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		logger.Error("listener stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("listener stopped")
}

// loadConfig loads the config, applies flag overrides and validates the result.
func loadConfig(path, logLevel, logFormat string) (*config.ListenerConfig, error) {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// run wires the token client, dispatcher and connection manager, then blocks
// until the connection ends.
func run(ctx context.Context, cfg *config.ListenerConfig, out io.Writer, logger *slog.Logger) error {
	creds := credentials(cfg)
	logger.Info("configuration loaded",
		"credentials", creds,
		"gateway_url", cfg.Gateway.URL,
		"oauth_url", cfg.Gateway.OAuthURL,
		"max_attempts", cfg.Reconnect.MaxAttempts,
	)

	tokens := auth.NewTokenClient(cfg.Gateway.OAuthURL, creds,
		auth.WithTimeout(cfg.HTTP.Timeout),
		auth.WithLogger(logger),
		auth.WithUserAgent(version.UserAgent()),
	)

	dispatcher := dispatch.New(logger, dispatch.WithOutput(out))
	if err := dispatcher.Register(dispatch.EventUserCreated, dispatch.UserCreatedHandler(logger)); err != nil {
		return fmt.Errorf("register handler: %w", err)
	}

	manager := connection.NewManager(managerConfig(cfg), tokens, dispatcher, logger)
	err := manager.Run(ctx)

	stats := dispatcher.Stats()
	mstats := manager.Stats()
	logger.Info("listener summary",
		"attempts", mstats.Attempts,
		"sessions", mstats.SessionsOpened,
		"messages", stats.MessagesReceived,
		"routed", stats.Routed,
		"parse_errors", stats.ParseErrors,
	)

	return err
}

func credentials(cfg *config.ListenerConfig) auth.Credentials {
	return auth.Credentials{
		AccountID:    cfg.Credentials.AccountID,
		ClientID:     cfg.Credentials.ClientID,
		ClientSecret: cfg.Credentials.ClientSecret,
	}
}

func managerConfig(cfg *config.ListenerConfig) connection.ManagerConfig {
	return connection.ManagerConfig{
		Session: connection.SessionConfig{
			URL:               cfg.Gateway.URL,
			UserAgent:         version.UserAgent(),
			HandshakeTimeout:  cfg.Gateway.HandshakeTimeout,
			WriteTimeout:      cfg.Gateway.WriteTimeout,
			HeartbeatInterval: cfg.Gateway.HeartbeatInterval,
			RelayCapacity:     cfg.Gateway.RelayCapacity,
		},
		Reconnect: connection.ReconnectConfig{
			MaxAttempts: cfg.Reconnect.MaxAttempts,
			BaseDelay:   cfg.Reconnect.BaseDelay,
			MaxDelay:    cfg.Reconnect.MaxDelay,
		},
	}
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
