package config

import "time"

// ListenerConfig is the root configuration for the event listener.
type ListenerConfig struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Gateway     GatewayConfig     `yaml:"gateway"`
	HTTP        HTTPConfig        `yaml:"http"`
	Reconnect   ReconnectConfig   `yaml:"reconnect"`
	Log         LogConfig         `yaml:"log"`
}

// CredentialsConfig holds the OAuth client credentials.
type CredentialsConfig struct {
	AccountID    string `yaml:"account_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// GatewayConfig holds WebSocket gateway settings.
type GatewayConfig struct {
	URL               string        `yaml:"url"`       // Subscription URL from the app's event settings
	OAuthURL          string        `yaml:"oauth_url"` // Base of the token endpoint
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	RelayCapacity     int           `yaml:"relay_capacity"`
}

// HTTPConfig holds token request settings.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// ReconnectConfig holds the reconnect policy. One attempt means fail fast.
type ReconnectConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
