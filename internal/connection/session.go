package connection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// Session is one live gateway connection. The receive loop owns reads, the
// forwarder owns data writes, and the heartbeat only touches the relay.
type Session struct {
	conn   *websocket.Conn
	cfg    SessionConfig
	relay  *Relay
	logger *slog.Logger

	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, cfg SessionConfig, logger *slog.Logger) *Session {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}

	return &Session{
		conn:   conn,
		cfg:    cfg,
		relay:  NewRelay(cfg.RelayCapacity),
		logger: logger,
	}
}

// Send queues a text frame for the forwarder.
func (s *Session) Send(ctx context.Context, data []byte) error {
	return s.relay.Enqueue(ctx, Frame(data))
}

// Run starts the forwarder and heartbeat, then reads frames into handler
// until the stream ends. It returns once every task has exited.
// A clean close by the gateway or cancellation of ctx returns nil.
func (s *Session) Run(ctx context.Context, handler MessageHandler) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.writeLoop(gctx)
	})

	g.Go(func() error {
		s.heartbeatLoop(gctx)
		return nil
	})

	g.Go(func() error {
		defer s.relay.Close()
		return s.readLoop(gctx, handler)
	})

	// A blocked ReadMessage only returns once the socket is closed.
	g.Go(func() error {
		select {
		case <-gctx.Done():
			if ctx.Err() != nil {
				s.writeClose()
			}
		case <-s.relay.Done():
		}
		s.close()
		return nil
	})

	return g.Wait()
}

// readLoop reads frames and hands text frames to the handler in arrival order.
func (s *Session) readLoop(ctx context.Context, handler MessageHandler) error {
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("gateway closed connection", "reason", err)
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		if msgType != websocket.TextMessage {
			continue
		}

		handler.Handle(data)
	}
}

// writeLoop drains the relay onto the socket. A write error ends the session.
func (s *Session) writeLoop(ctx context.Context) error {
	for {
		frame, err := s.relay.Next(ctx)
		if err != nil {
			return nil
		}

		if s.cfg.WriteTimeout > 0 {
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				return fmt.Errorf("set write deadline: %w", err)
			}
		}
		if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
}

// heartbeatLoop queues a heartbeat frame every interval. It stops quietly
// once the relay refuses a frame.
func (s *Session) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.relay.Done():
			return
		case <-ticker.C:
			if err := s.relay.Enqueue(ctx, Frame(HeartbeatFrame)); err != nil {
				return
			}
			s.logger.Debug("heartbeat queued")
		}
	}
}

// writeClose sends a normal-closure control frame.
func (s *Session) writeClose() {
	err := s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	if err != nil {
		s.logger.Debug("failed to send close frame", "error", err)
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.relay.Close()
		s.conn.Close()
	})
}
