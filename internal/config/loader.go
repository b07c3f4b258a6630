package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names, checked in order.
var (
	envAccountID    = []string{"accountId", "ACCOUNT_ID"}
	envClientID     = []string{"clientId", "CLIENT_ID"}
	envClientSecret = []string{"clientSecret", "CLIENT_SECRET"}
	envURL          = []string{"url", "WS_URL"}
	envOAuthURL     = []string{"OAUTH_URL"}
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*ListenerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg ListenerConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a config from process environment variables only.
func FromEnv() *ListenerConfig {
	return &ListenerConfig{
		Credentials: CredentialsConfig{
			AccountID:    lookupEnv(envAccountID),
			ClientID:     lookupEnv(envClientID),
			ClientSecret: lookupEnv(envClientSecret),
		},
		Gateway: GatewayConfig{
			URL:      lookupEnv(envURL),
			OAuthURL: lookupEnv(envOAuthURL),
		},
	}
}

// LoadWithDefaults loads config and applies default values. An empty path
// reads the environment instead of a file.
func LoadWithDefaults(path string) (*ListenerConfig, error) {
	var cfg *ListenerConfig
	if path == "" {
		cfg = FromEnv()
	} else {
		var err error
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*ListenerConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func lookupEnv(names []string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
