package transport

import (
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hydro-mc/hydro/server/session"
)

// writeWait bounds how long a single frame write may block before the
// connection is considered dead.
const writeWait = 10 * time.Second

// Conn is the WebSocket-backed implementation of session.Outbound: it owns
// one accepted connection's read and write goroutines and the per-client
// unbounded outbound queue described in §5. The tick loop never touches
// *websocket.Conn directly; it only ever calls Send/Close on this type (or
// on the narrower session.Outbound interface).
type Conn struct {
	ws  *websocket.Conn
	log *slog.Logger

	sink EnqueueFunc

	mu     sync.Mutex
	queue  []any
	notify chan struct{}
	closed bool
}

// EnqueueFunc delivers one decoded PlayerInput frame to the session it
// belongs to. The server binds this to (*session.Session).Enqueue once
// the session has been created and registered.
type EnqueueFunc func(session.PlayerInputFrame)

func newConn(ws *websocket.Conn, log *slog.Logger) *Conn {
	return &Conn{ws: ws, log: log, notify: make(chan struct{}, 1)}
}

// Bind attaches the session-side decode sink once the caller has created
// the Session this connection belongs to, and starts the read/write pumps.
func (c *Conn) Bind(sink EnqueueFunc, onDisconnect func()) {
	c.sink = sink
	go c.writePump()
	go c.readPump(onDisconnect)
}

// Send appends msg to the outbound queue. It never blocks: a slow or dead
// client cannot stall the tick-loop goroutine that called Send (§5). The
// queue is drained strictly in enqueue order, matching the per-client FIFO
// ordering guarantee in §5.
func (c *Conn) Send(msg any) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, msg)
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Close marks the connection closed and tears down the underlying socket.
// Safe to call more than once and from either pump.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
	_ = c.ws.Close()
}

func (c *Conn) drain() ([]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.queue
	c.queue = nil
	return msgs, c.closed
}

// writePump drains the outbound queue and frames each message as a
// base64-wrapped text frame (§6). A send failure to this one client is
// tolerated: it marks the connection closed rather than propagating
// upward (§5, §7).
func (c *Conn) writePump() {
	for range c.notify {
		msgs, closed := c.drain()
		for _, msg := range msgs {
			raw, err := encodeS2C(msg)
			if err != nil {
				c.log.Error("transport: failed to encode outbound message", "error", err)
				continue
			}
			payload := base64.StdEncoding.EncodeToString(raw)
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				c.log.Debug("transport: write failed, closing connection", "error", err)
				c.Close()
				return
			}
		}
		if closed {
			return
		}
	}
}

// readPump decodes inbound text frames and forwards them to the bound
// sink until the socket errors or closes, at which point it marks the
// connection closed and invokes onDisconnect so the owning session can
// reap itself on its next Step (§4.6, §7: decode errors terminate the
// client's inbound stream).
func (c *Conn) readPump(onDisconnect func()) {
	defer func() {
		c.Close()
		onDisconnect()
	}()
	for {
		kind, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(string(raw))
		if err != nil {
			c.log.Debug("transport: malformed base64 frame, dropping connection", "error", err)
			return
		}
		frame, err := decodeC2S(decoded)
		if err != nil {
			c.log.Debug("transport: malformed C2S frame, dropping connection", "error", err)
			return
		}
		if c.sink != nil {
			c.sink(frame)
		}
	}
}
