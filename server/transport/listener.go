package transport

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/websocket"
)

// staticBundleFiles are the client bundle paths served alongside the
// WebSocket endpoint (§6): a convenience collaborator, not part of the
// core simulation.
var staticBundleFiles = map[string]string{
	"/":                  "index.html",
	"/mq_js_bundle.js":   "mq_js_bundle.js",
	"/hydro_client.wasm": "hydro_client.wasm",
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The client bundle is served from the same origin as the WebSocket
	// endpoint; cross-origin play is not a goal of this server.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Listener accepts WebSocket connections on a TCP port and static-serves
// the client bundle alongside it (§6). Accepted connections are delivered
// on a channel rather than handed back from Accept synchronously, matching
// the "new-connection queue" the tick loop drains once per tick (§4.7,
// §5).
type Listener struct {
	log      *slog.Logger
	srv      *http.Server
	accepted chan *Conn
	staticDir string
}

// NewListener returns a Listener bound to addr (e.g. ":8080"). staticDir, if
// non-empty, is the directory static bundle files are served from; an empty
// staticDir disables static serving entirely (useful in tests).
func NewListener(addr string, staticDir string, log *slog.Logger) *Listener {
	if log == nil {
		log = slog.Default()
	}
	l := &Listener{log: log, accepted: make(chan *Conn, 64), staticDir: staticDir}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", l.handleWS)
	if staticDir != "" {
		for route, file := range staticBundleFiles {
			route, file := route, file
			mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
				http.ServeFile(w, r, filepath.Join(staticDir, file))
			})
		}
	}
	l.srv = &http.Server{Addr: addr, Handler: mux}
	return l
}

// Accept returns the channel of newly accepted connections. The tick loop
// drains it with a non-blocking select, never blocking on I/O (§5).
func (l *Listener) Accept() <-chan *Conn { return l.accepted }

// Serve blocks serving HTTP/WebSocket traffic until the listener is closed.
// It is meant to run on its own goroutine.
func (l *Listener) Serve() error {
	err := l.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close shuts the HTTP server down, closing its listening socket.
func (l *Listener) Close() error {
	return l.srv.Shutdown(context.Background())
}

func (l *Listener) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.log.Debug("transport: websocket upgrade failed", "error", err)
		return
	}
	c := newConn(ws, l.log)
	select {
	case l.accepted <- c:
	default:
		// The tick loop has fallen far enough behind that the accept queue
		// is full; rather than block the HTTP handler goroutine, drop the
		// connection. This is a backpressure boundary, not a protocol error.
		l.log.Error("transport: accept queue full, dropping connection")
		c.Close()
	}
}

// fileExists reports whether a static bundle asset is present. Nothing in
// the server calls it at startup; a missing asset shows up as a 404 at
// request time.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
