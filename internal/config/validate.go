package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *ListenerConfig) Validate() error {
	var missing []string
	if c.Credentials.AccountID == "" {
		missing = append(missing, "credentials.account_id")
	}
	if c.Credentials.ClientID == "" {
		missing = append(missing, "credentials.client_id")
	}
	if c.Credentials.ClientSecret == "" {
		missing = append(missing, "credentials.client_secret")
	}
	if c.Gateway.URL == "" {
		missing = append(missing, "gateway.url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required values: %s", strings.Join(missing, ", "))
	}

	u, err := url.Parse(c.Gateway.URL)
	if err != nil {
		return fmt.Errorf("gateway.url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("gateway.url scheme must be ws or wss, got %q", u.Scheme)
	}

	if c.Gateway.HeartbeatInterval <= 0 {
		return errors.New("gateway.heartbeat_interval must be > 0")
	}
	if c.Gateway.RelayCapacity < 1 {
		return errors.New("gateway.relay_capacity must be >= 1")
	}

	if c.Reconnect.MaxAttempts < 1 {
		return errors.New("reconnect.max_attempts must be >= 1")
	}
	if c.Reconnect.MaxDelay < c.Reconnect.BaseDelay {
		return fmt.Errorf("reconnect.max_delay (%v) cannot be less than base_delay (%v)",
			c.Reconnect.MaxDelay, c.Reconnect.BaseDelay)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}
