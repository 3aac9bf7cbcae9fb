// Package stream serves graph conversion over a websocket connection.
package stream

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/core/internal/converter"
	"github.com/depscope/core/internal/models"
	"github.com/depscope/core/internal/service"
)

const componentDocument = `{"components": {"App": {"name": "App", "children": ["Header"]}, "Header": {"name": "Header"}}}`

func newTestHandler() *Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	graphs := service.New(converter.New(converter.WithLogger(log)), nil, nil, log)
	return NewHandler(graphs, "*", log)
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	return dialHandler(t, newTestHandler())
}

func dialHandler(t *testing.T, h *Handler) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg any) Message {
	t.Helper()

	require.NoError(t, conn.WriteJSON(msg))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestHandler(t *testing.T) {
	t.Run("ping is answered with pong", func(t *testing.T) {
		conn := dial(t)

		reply := roundTrip(t, conn, Message{Type: TypePing, ID: "1"})

		assert.Equal(t, TypePong, reply.Type)
		assert.Equal(t, "1", reply.ID)
	})

	t.Run("convert returns the graph", func(t *testing.T) {
		conn := dial(t)

		reply := roundTrip(t, conn, map[string]any{
			"type":    "convert",
			"id":      "req-1",
			"payload": map[string]any{"document": json.RawMessage(componentDocument)},
		})

		require.Equal(t, TypeGraph, reply.Type)
		assert.Equal(t, "req-1", reply.ID)

		var graph models.Graph
		require.NoError(t, json.Unmarshal(reply.Payload, &graph))
		assert.Len(t, graph.Nodes, 2)
		require.Len(t, graph.Edges, 1)
		assert.Equal(t, models.EdgeRenders, graph.Edges[0].Type)
	})

	t.Run("document may be sent as a string", func(t *testing.T) {
		conn := dial(t)

		reply := roundTrip(t, conn, map[string]any{
			"type":    "convert",
			"payload": map[string]any{"document": componentDocument},
		})

		assert.Equal(t, TypeGraph, reply.Type)
	})

	t.Run("unsupported document", func(t *testing.T) {
		conn := dial(t)

		reply := roundTrip(t, conn, map[string]any{
			"type":    "convert",
			"payload": map[string]any{"document": map[string]any{}},
		})

		require.Equal(t, TypeError, reply.Type)
		var payload ErrorPayload
		require.NoError(t, json.Unmarshal(reply.Payload, &payload))
		assert.Equal(t, CodeUnsupported, payload.Code)
		assert.Equal(t, "unsupported dependency format: unknown", payload.Message)
	})

	t.Run("unknown message type", func(t *testing.T) {
		conn := dial(t)

		reply := roundTrip(t, conn, Message{Type: "subscribe"})

		require.Equal(t, TypeError, reply.Type)
		var payload ErrorPayload
		require.NoError(t, json.Unmarshal(reply.Payload, &payload))
		assert.Equal(t, CodeBadMessage, payload.Code)
	})

	t.Run("connection stays open across messages", func(t *testing.T) {
		conn := dial(t)

		first := roundTrip(t, conn, Message{Type: TypePing})
		second := roundTrip(t, conn, map[string]any{
			"type":    "convert",
			"payload": map[string]any{"document": "", "format": "java"},
		})

		assert.Equal(t, TypePong, first.Type)
		require.Equal(t, TypeError, second.Type)
		var payload ErrorPayload
		require.NoError(t, json.Unmarshal(second.Payload, &payload))
		assert.Equal(t, CodeEmpty, payload.Code)
	})
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeEmpty, errorCode(converter.ErrEmptyDocument))
	assert.Equal(t, CodeUnsupported, errorCode(&converter.UnsupportedFormatError{Type: converter.Unknown}))
	assert.Equal(t, CodeInternal, errorCode(io.ErrUnexpectedEOF))
}

func TestKeepalive(t *testing.T) {
	t.Run("a peer that never answers pings is dropped", func(t *testing.T) {
		h := newTestHandler()
		h.pingPeriod = 50 * time.Millisecond
		h.pongWait = 200 * time.Millisecond
		conn := dialHandler(t, h)

		// Pongs are only sent while the peer reads, so staying idle looks silent.
		time.Sleep(500 * time.Millisecond)

		var err error
		for err == nil {
			_, _, err = conn.ReadMessage()
		}

		var netErr net.Error
		assert.False(t, errors.As(err, &netErr) && netErr.Timeout(), "expected the server to close, got %v", err)
	})

	t.Run("a reading peer outlives the pong wait", func(t *testing.T) {
		h := newTestHandler()
		h.pingPeriod = 50 * time.Millisecond
		h.pongWait = 200 * time.Millisecond
		conn := dialHandler(t, h)

		replies := make(chan Message, 1)
		go func() {
			var msg Message
			if err := conn.ReadJSON(&msg); err == nil {
				replies <- msg
			}
			close(replies)
		}()

		time.Sleep(500 * time.Millisecond)
		require.NoError(t, conn.WriteJSON(Message{Type: TypePing, ID: "late"}))

		select {
		case msg, ok := <-replies:
			require.True(t, ok, "connection closed before the reply")
			assert.Equal(t, TypePong, msg.Type)
			assert.Equal(t, "late", msg.ID)
		case <-time.After(5 * time.Second):
			t.Fatal("no reply")
		}
	})
}
