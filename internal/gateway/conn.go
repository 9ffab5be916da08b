package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eleven-am/voice-bridge/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 10 * 1024 * 1024
	sendBuffer     = 128
)

// ErrConnClosed is returned by Send once the connection has been closed.
var ErrConnClosed = errors.New("connection closed")

// ClientConn wraps one client websocket. Outbound envelopes go through a
// buffered channel drained by writePump, so any goroutine may Send; inbound
// frames are read by readPump on the handler goroutine. Close only signals
// teardown; writePump flushes what is queued and releases the socket.
type ClientConn struct {
	id     string
	ws     *websocket.Conn
	logger *slog.Logger

	send chan protocol.Message

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewClientConn(ws *websocket.Conn, id string, logger *slog.Logger) *ClientConn {
	return &ClientConn{
		id:     id,
		ws:     ws,
		logger: logger.With("connection_id", id),
		send:   make(chan protocol.Message, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *ClientConn) ID() string {
	return c.id
}

func (c *ClientConn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// Send queues one server frame for delivery. A full buffer drops the frame
// rather than block the caller.
func (c *ClientConn) Send(msg protocol.Message) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		c.logger.Warn("send buffer full, dropping frame", "type", msg.Type())
		return nil
	}
}

// Close marks the connection closed and wakes both pumps. Idempotent.
func (c *ClientConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return nil
}

// readPump reads client frames and hands each one to the bridge in arrival
// order. It returns when the client disconnects, the context is canceled, or
// the connection is closed from our side.
func (c *ClientConn) readPump(ctx context.Context, bridge *Bridge) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket read error", "error", err)
			}
			return
		}

		bridge.HandleFrame(ctx, raw)
	}
}

// writePump owns all writes to the socket, including pings. On teardown it
// flushes queued frames, sends a close frame, and closes the socket.
func (c *ClientConn) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
		_ = c.ws.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.drain()
			return

		case msg := <-c.send:
			if err := c.writeFrame(msg); err != nil {
				c.logger.Error("websocket write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.drain()
			return
		}
	}
}

func (c *ClientConn) writeFrame(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		c.logger.Error("failed to encode frame", "type", msg.Type(), "error", err)
		return nil
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// drain writes frames queued before Close, then the close frame.
func (c *ClientConn) drain() {
	for {
		select {
		case msg := <-c.send:
			if err := c.writeFrame(msg); err != nil {
				return
			}
		default:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
