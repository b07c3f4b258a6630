package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn, *http.Request)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn, r)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?subscriptionId=sub-1"
}

// closeNormally sends a normal-closure frame to the client.
func closeNormally(conn *websocket.Conn) {
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
}

func testSessionConfig(url string) SessionConfig {
	cfg := DefaultSessionConfig()
	cfg.URL = url
	cfg.HeartbeatInterval = time.Hour
	return cfg
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		token string
		want  string
	}{
		{"existing query", "wss://ws.example.com/ws?subscriptionId=abc", "T", "wss://ws.example.com/ws?subscriptionId=abc&access_token=T"},
		{"no query", "wss://ws.example.com/ws", "T", "wss://ws.example.com/ws?access_token=T"},
		{"token escaped", "wss://ws.example.com/ws?s=1", "a+b/c=", "wss://ws.example.com/ws?s=1&access_token=a%2Bb%2Fc%3D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.base, tt.token); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDial_TokenOnURL(t *testing.T) {
	gotToken := make(chan string, 1)
	gotSub := make(chan string, 1)
	gotUA := make(chan string, 1)

	server := mockWSServer(t, func(conn *websocket.Conn, r *http.Request) {
		gotToken <- r.URL.Query().Get("access_token")
		gotSub <- r.URL.Query().Get("subscriptionId")
		gotUA <- r.Header.Get("User-Agent")
		closeNormally(conn)
	})
	defer server.Close()

	cfg := testSessionConfig(wsURL(server))
	cfg.UserAgent = "listener/test"

	session, err := Dial(context.Background(), cfg, "T", nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer session.close()

	if tok := <-gotToken; tok != "T" {
		t.Errorf("access_token = %q, want T", tok)
	}
	if sub := <-gotSub; sub != "sub-1" {
		t.Errorf("subscriptionId = %q, want sub-1", sub)
	}
	if ua := <-gotUA; ua != "listener/test" {
		t.Errorf("User-Agent = %q, want listener/test", ua)
	}
}

func TestDial_HandshakeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := Dial(context.Background(), testSessionConfig(wsURL(server)), "bad", nil)
	if err == nil {
		t.Fatal("expected handshake error")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error = %q, should mention status 401", err)
	}
}

func TestDial_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := wsURL(server)
	server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := Dial(ctx, testSessionConfig(url), "T", nil); err == nil {
		t.Fatal("expected error dialing closed server")
	}
}

func TestDefaultConfigs(t *testing.T) {
	sessCfg := DefaultSessionConfig()
	if sessCfg.HeartbeatInterval != 30*time.Second {
		t.Errorf("HeartbeatInterval = %v, want 30s", sessCfg.HeartbeatInterval)
	}
	if sessCfg.RelayCapacity != 32 {
		t.Errorf("RelayCapacity = %d, want 32", sessCfg.RelayCapacity)
	}
	if sessCfg.HandshakeTimeout != 10*time.Second {
		t.Errorf("HandshakeTimeout = %v, want 10s", sessCfg.HandshakeTimeout)
	}

	mgrCfg := DefaultManagerConfig()
	if mgrCfg.Reconnect.MaxAttempts != 1 {
		t.Errorf("Reconnect.MaxAttempts = %d, want 1", mgrCfg.Reconnect.MaxAttempts)
	}
}
