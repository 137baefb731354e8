package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventSource yields raw pipeline messages, one per call, in arrival order.
type EventSource interface {
	// Next blocks until a message arrives. It returns io.EOF once the peer
	// closed the connection.
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// Dialer opens an EventSource for the given address.
type Dialer interface {
	Dial(ctx context.Context, address string) (EventSource, error)
}

// WebSocketDialer connects to the pipeline's websocket server.
type WebSocketDialer struct {
	dialer websocket.Dialer
}

// NewWebSocketDialer constructs a WebSocketDialer; a zero timeout uses the
// gorilla default.
func NewWebSocketDialer(handshakeTimeout time.Duration) *WebSocketDialer {
	dialer := *websocket.DefaultDialer
	if handshakeTimeout > 0 {
		dialer.HandshakeTimeout = handshakeTimeout
	}

	return &WebSocketDialer{dialer: dialer}
}

// Dial opens the socket. The connection is closed when ctx is done.
func (d *WebSocketDialer) Dial(ctx context.Context, address string) (EventSource, error) {
	conn, resp, err := d.dialer.DialContext(ctx, address, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	source := &webSocketSource{conn: conn}
	source.stop = context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})

	return source, nil
}

type webSocketSource struct {
	conn      *websocket.Conn
	stop      func() bool
	closeOnce sync.Once
	closeErr  error
}

func (s *webSocketSource) Next(ctx context.Context) ([]byte, error) {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			if isClosed(err) {
				return nil, io.EOF
			}

			return nil, fmt.Errorf("read message: %w", err)
		}

		if kind == websocket.TextMessage || kind == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (s *webSocketSource) Close() error {
	s.closeOnce.Do(func() {
		if s.stop != nil {
			s.stop()
		}

		if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.closeErr = err
		}
	})

	return s.closeErr
}

func isClosed(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return true
	}

	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
