// Package stream serves graph conversion over a websocket connection.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/depscope/core/internal/models"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 32 << 20
)

// Converter is the conversion entry point used for incoming documents.
type Converter interface {
	Convert(ctx context.Context, format string, document []byte) (*models.Graph, error)
}

type Handler struct {
	graphs   Converter
	log      *slog.Logger
	upgrader websocket.Upgrader

	// pingPeriod must stay below pongWait.
	pingPeriod time.Duration
	pongWait   time.Duration
}

func NewHandler(graphs Converter, allowedOrigin string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		graphs: graphs,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		conn:       conn,
		graphs:     h.graphs,
		log:        h.log.With(slog.String("remote", r.RemoteAddr)),
		send:       make(chan Message, 256),
		pingPeriod: h.pingPeriod,
		pongWait:   h.pongWait,
	}

	go c.writePump()
	go c.readPump()
}

// client owns one connection. Only readPump sends on send, and it closes the
// channel when the connection ends.
type client struct {
	conn   *websocket.Conn
	graphs Converter
	log    *slog.Logger
	send   chan Message

	pingPeriod time.Duration
	pongWait   time.Duration
}

func (c *client) sendMessage(msg Message) {
	select {
	case c.send <- msg:
	default:
		c.log.Warn("message channel full, dropping message", slog.String("type", string(msg.Type)))
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Warn("error writing message", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		close(c.send)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket error", slog.String("error", err.Error()))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

		switch msg.Type {
		case TypeConvert:
			c.handleConvert(ctx, msg)
		case TypePing:
			c.sendMessage(Message{Type: TypePong, ID: msg.ID})
		default:
			c.sendMessage(NewErrorMessage(msg.ID, fmt.Sprintf("unknown message type: %s", msg.Type), CodeBadMessage))
		}
	}
}

func (c *client) handleConvert(ctx context.Context, msg Message) {
	var payload ConvertPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.sendMessage(NewErrorMessage(msg.ID, "invalid convert payload: "+err.Error(), CodeBadMessage))
		return
	}

	document, err := payload.DocumentBytes()
	if err != nil {
		c.sendMessage(NewErrorMessage(msg.ID, "invalid document: "+err.Error(), CodeBadMessage))
		return
	}

	graph, err := c.graphs.Convert(ctx, payload.Format, document)
	if err != nil {
		c.sendMessage(NewErrorMessage(msg.ID, err.Error(), errorCode(err)))
		return
	}

	c.sendMessage(NewGraphMessage(msg.ID, graph))
}
