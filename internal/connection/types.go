package connection

import (
	"context"
	"errors"
	"time"
)

// Errors
var (
	ErrRelayClosed = errors.New("relay closed")
	ErrRelayFull   = errors.New("relay full")
)

// HeartbeatFrame is the keep-alive payload expected by the gateway.
const HeartbeatFrame = `{"module": "heartbeat"}`

// Defaults for SessionConfig and ReconnectConfig.
const (
	DefaultHandshakeTimeout  = 10 * time.Second
	DefaultWriteTimeout      = 5 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultRelayCapacity     = 32
	DefaultReconnectBase     = 1 * time.Second
	DefaultReconnectMax      = 60 * time.Second
)

// Frame is a text payload queued for transmission.
type Frame []byte

// TokenSource supplies an access token for a connection attempt.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// MessageHandler consumes inbound text frames. Handle is called from the
// receive loop, one frame at a time.
type MessageHandler interface {
	Handle(raw []byte)
}

// HandlerFunc adapts a function to MessageHandler.
type HandlerFunc func(raw []byte)

// Handle calls f(raw).
func (f HandlerFunc) Handle(raw []byte) { f(raw) }

// SessionConfig configures a single gateway connection.
type SessionConfig struct {
	URL               string        // Gateway URL; the access token is appended as a query parameter
	UserAgent         string        // Sent with the upgrade request (empty = library default)
	HandshakeTimeout  time.Duration // Upgrade handshake deadline
	WriteTimeout      time.Duration // Per-frame write deadline (0 = none)
	HeartbeatInterval time.Duration // Time between heartbeat frames
	RelayCapacity     int           // Outbound queue capacity
}

// DefaultSessionConfig returns sensible defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		HandshakeTimeout:  DefaultHandshakeTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		HeartbeatInterval: DefaultHeartbeatInterval,
		RelayCapacity:     DefaultRelayCapacity,
	}
}

// ReconnectConfig controls repeated connection attempts.
// MaxAttempts <= 1 means a single attempt with no retry.
type ReconnectConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// ManagerConfig configures the Connection Manager.
type ManagerConfig struct {
	Session   SessionConfig
	Reconnect ReconnectConfig
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Session: DefaultSessionConfig(),
		Reconnect: ReconnectConfig{
			MaxAttempts: 1,
			BaseDelay:   DefaultReconnectBase,
			MaxDelay:    DefaultReconnectMax,
		},
	}
}

// ManagerStats provides statistics about the connection manager.
type ManagerStats struct {
	Attempts       int64 // Connection attempts started
	TokenFailures  int64
	DialFailures   int64
	SessionsOpened int64
}
