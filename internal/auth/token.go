package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultOAuthURL is the base of the OAuth token endpoint.
const DefaultOAuthURL = "https://zoom.us/oauth/"

// GrantType is the grant used for server-to-server account tokens.
const GrantType = "account_credentials"

// ErrNoAccessToken is returned when the token response carries no access_token.
var ErrNoAccessToken = errors.New("access token not found in response")

// APIError represents a non-200 response from the token endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oauth token error %d: %s", e.StatusCode, e.Message)
}

// tokenResponse is the JSON body returned by the token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// TokenClient exchanges client credentials for short-lived bearer tokens.
type TokenClient struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// TokenOption configures a TokenClient.
type TokenOption func(*TokenClient)

// NewTokenClient creates a token client for the given OAuth base URL.
// An empty baseURL selects DefaultOAuthURL.
func NewTokenClient(baseURL string, creds Credentials, opts ...TokenOption) *TokenClient {
	if baseURL == "" {
		baseURL = DefaultOAuthURL
	}

	c := &TokenClient{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout. It applies to a copy of the
// current client, so a client passed via WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) TokenOption {
	return func(c *TokenClient) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) TokenOption {
	return func(c *TokenClient) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TokenOption {
	return func(c *TokenClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header sent with token requests.
func WithUserAgent(ua string) TokenOption {
	return func(c *TokenClient) {
		c.userAgent = ua
	}
}

// TokenURL returns the full token endpoint URL including the grant query.
func (c *TokenClient) TokenURL() string {
	// grant_type stays first, matching the documented request shape.
	return strings.TrimSuffix(c.baseURL, "/") + "/token?grant_type=" + GrantType +
		"&account_id=" + url.QueryEscape(c.creds.AccountID)
}

// AccessToken requests a new access token. Tokens are never cached: each
// connection attempt fetches its own.
func (c *TokenClient) AccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.creds.BasicAuthorization())
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	var result tokenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if result.AccessToken == "" {
		return "", ErrNoAccessToken
	}

	c.logger.Debug("access token acquired",
		"token_type", result.TokenType,
		"expires_in", result.ExpiresIn,
		"scope", result.Scope,
	)

	return result.AccessToken, nil
}
