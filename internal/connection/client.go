package connection

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// BuildURL appends the access token to the gateway URL as a query parameter.
func BuildURL(gatewayURL, token string) string {
	sep := "&"
	if !strings.Contains(gatewayURL, "?") {
		sep = "?"
	}
	return gatewayURL + sep + "access_token=" + url.QueryEscape(token)
}

// Dial performs the WebSocket upgrade against the gateway and returns an
// idle Session. Call Run to start its tasks.
func Dial(ctx context.Context, cfg SessionConfig, token string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	header := http.Header{}
	if cfg.UserAgent != "" {
		header.Set("User-Agent", cfg.UserAgent)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, BuildURL(cfg.URL, token), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket handshake (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket handshake: %w", err)
	}

	logger.Debug("websocket connected", "url", cfg.URL)

	return newSession(conn, cfg, logger), nil
}
