// Package auth provides OAuth client-credentials authentication for the event gateway.
package auth

import (
	"encoding/base64"
	"errors"
	"log/slog"
)

// Credentials holds the account-level OAuth client credentials.
type Credentials struct {
	AccountID    string // Account the token is issued for
	ClientID     string // OAuth app client ID
	ClientSecret string // OAuth app client secret
}

// Validate checks that all credential fields are set.
func (c Credentials) Validate() error {
	if c.AccountID == "" {
		return errors.New("account ID is required")
	}
	if c.ClientID == "" {
		return errors.New("client ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("client secret is required")
	}
	return nil
}

// BasicAuthorization returns the value for the Authorization header:
// "Basic " + base64(client_id:client_secret).
func (c Credentials) BasicAuthorization() string {
	raw := c.ClientID + ":" + c.ClientSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// LogValue keeps the client secret out of logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account_id", c.AccountID),
		slog.String("client_id", c.ClientID),
		slog.String("client_secret", "REDACTED"),
	)
}
