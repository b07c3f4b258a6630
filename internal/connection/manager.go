package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"
)

// errSessionEnded marks an attempt whose session closed without error, so the
// reconnect policy treats it like any other lost connection.
var errSessionEnded = errors.New("session ended")

// Manager owns the connection lifecycle: token, dial, session.
type Manager struct {
	cfg     ManagerConfig
	tokens  TokenSource
	handler MessageHandler
	logger  *slog.Logger

	attempts       atomic.Int64
	tokenFailures  atomic.Int64
	dialFailures   atomic.Int64
	sessionsOpened atomic.Int64
}

// NewManager creates a new Connection Manager.
func NewManager(cfg ManagerConfig, tokens TokenSource, handler MessageHandler, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		cfg:     cfg,
		tokens:  tokens,
		handler: handler,
		logger:  logger,
	}
}

// Run connects and processes frames until the connection closes.
//
// With the default reconnect policy (MaxAttempts <= 1) this is a single
// attempt: a token or handshake failure is returned immediately, and a
// closed session returns its transport error or nil for a clean close.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.Reconnect.MaxAttempts <= 1 {
		return m.runOnce(ctx)
	}

	var lastErr error
	err := retry.Do(
		func() error {
			lastErr = m.runOnce(ctx)
			if ctx.Err() != nil {
				return retry.Unrecoverable(ctx.Err())
			}
			if lastErr == nil {
				return errSessionEnded
			}
			return lastErr
		},
		retry.Context(ctx),
		retry.Attempts(uint(m.cfg.Reconnect.MaxAttempts)),
		retry.Delay(m.cfg.Reconnect.BaseDelay),
		retry.MaxDelay(m.cfg.Reconnect.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			m.logger.Warn("connection attempt ended",
				"attempt", n+1,
				"max_attempts", m.cfg.Reconnect.MaxAttempts,
				"error", err,
			)
		}),
	)

	if ctx.Err() != nil {
		return nil
	}
	if err != nil && lastErr == nil {
		// Out of attempts, but the final session closed cleanly.
		return nil
	}
	return lastErr
}

// Stats returns current statistics.
func (m *Manager) Stats() ManagerStats {
	return ManagerStats{
		Attempts:       m.attempts.Load(),
		TokenFailures:  m.tokenFailures.Load(),
		DialFailures:   m.dialFailures.Load(),
		SessionsOpened: m.sessionsOpened.Load(),
	}
}

// runOnce performs one connection attempt end to end.
func (m *Manager) runOnce(ctx context.Context) error {
	m.attempts.Add(1)
	logger := m.logger.With("session_id", uuid.NewString())

	token, err := m.tokens.AccessToken(ctx)
	if err != nil {
		m.tokenFailures.Add(1)
		logger.Error("unable to get access token", "error", err)
		return fmt.Errorf("acquire access token: %w", err)
	}

	session, err := Dial(ctx, m.cfg.Session, token, logger)
	if err != nil {
		m.dialFailures.Add(1)
		logger.Error("failed to connect to websocket", "url", m.cfg.Session.URL, "error", err)
		return fmt.Errorf("connect: %w", err)
	}

	m.sessionsOpened.Add(1)
	logger.Info("connected", "url", m.cfg.Session.URL)

	err = session.Run(ctx, m.handler)
	if err != nil {
		logger.Warn("connection closed", "error", err)
		return err
	}

	logger.Info("connection closed")
	return nil
}
