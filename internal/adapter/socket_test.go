package adapter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// newPipelineServer serves messages to every client and then waits for it to
// hang up. The returned stop func shuts the server down.
func newPipelineServer(t *testing.T, messages ...string) (string, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}

		if len(messages) > 0 {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "pipeline done"))
		}

		// Block until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))

	return "ws" + strings.TrimPrefix(srv.URL, "http"), srv.Close
}

func TestWebSocketDialer_ReadsMessagesUntilClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	address, stop := newPipelineServer(t,
		`{"type":"setCurrentProcess","payload":{"processName":"Split File"}}`,
		`{"type":"selectRegion","payload":{"selectedRegion":1}}`,
	)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	source, err := NewWebSocketDialer(time.Second).Dial(ctx, address)
	require.NoError(t, err)
	defer source.Close()

	first, err := source.Next(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(first), "Split File")

	second, err := source.Next(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(second), "selectRegion")

	_, err = source.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWebSocketDialer_ContextCancelUnblocksNext(t *testing.T) {
	defer goleak.VerifyNone(t)

	address, stop := newPipelineServer(t)
	defer stop()

	ctx, cancel := context.WithCancel(context.Background())

	source, err := NewWebSocketDialer(0).Dial(ctx, address)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := source.Next(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Next() did not return after cancel")
	}

	assert.NoError(t, source.Close())
	assert.NoError(t, source.Close())
}

func TestWebSocketDialer_DialError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	address := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	_, err := NewWebSocketDialer(time.Second).Dial(context.Background(), address)
	assert.ErrorContains(t, err, "dial")
}
