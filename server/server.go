package server

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hydro-mc/hydro/server/script"
	"github.com/hydro-mc/hydro/server/session"
	"github.com/hydro-mc/hydro/server/transport"
	"github.com/hydro-mc/hydro/server/world"
)

// Config contains options for starting a server.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set
	// to slog.Default().
	Log *slog.Logger
	// Listeners is a list of functions to create a Listener using a Config,
	// one for each Listener to be added to the Server. If left empty, no
	// clients will be able to connect to the Server.
	Listeners []func(conf Config) (*transport.Listener, error)
	// Name identifies the running server in the content bundle sent to
	// every newly joined client.
	Name string
	// ScriptPath is the entry Lua file loaded once at startup: it registers
	// every tileset, entity type and event handler the server runs. A
	// missing or erroring script file is a configuration error and aborts
	// New.
	ScriptPath string
	// AssetDir is where register_tileset/register_entity resolve their
	// {file=...} image references from. Defaults to "assets".
	AssetDir string
	// TPS is the fixed simulation tick rate. Defaults to 30.
	TPS int
	// LoadRadius is the interest-window radius (LOAD_RADIUS), in chunks.
	// Defaults to 4.
	LoadRadius int
}

// TCPListener returns a Listeners entry that binds a transport.Listener to
// addr, static-serving the client bundle from staticDir (which may be
// empty to disable static serving).
func TCPListener(addr, staticDir string) func(Config) (*transport.Listener, error) {
	return func(conf Config) (*transport.Listener, error) {
		return transport.NewListener(addr, staticDir, conf.Log), nil
	}
}

// New creates a Server using the fields of conf. The returned Server's tick
// loop has not started; call Run to start accepting connections and
// simulating ticks.
func (conf Config) New() (*Server, error) {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if len(conf.Listeners) == 0 {
		conf.Log.Warn("config: no listeners set, no connections will be accepted")
	}
	if conf.Name == "" {
		conf.Name = "hydro"
	}
	if conf.AssetDir == "" {
		conf.AssetDir = "assets"
	}
	if conf.TPS <= 0 {
		conf.TPS = 30
	}
	if conf.LoadRadius <= 0 {
		conf.LoadRadius = 4
	}

	registry := world.NewRegistry()
	uni := world.NewUniverse(conf.Log, registry, conf.TPS, conf.LoadRadius)

	srv := &Server{
		conf:     conf,
		uni:      uni,
		sessions: map[world.ClientID]*session.Session{},
		closing:  make(chan struct{}),
	}
	srv.scriptHost = script.New(uni, srv, conf.Log, conf.AssetDir)

	if conf.ScriptPath != "" {
		if err := srv.scriptHost.DoFile(conf.ScriptPath); err != nil {
			return nil, fmt.Errorf("%w: %v", world.ErrConfiguration, err)
		}
	}
	srv.content = registry.ContentBundle(conf.Name)

	for _, lf := range conf.Listeners {
		l, err := lf(conf)
		if err != nil {
			return nil, fmt.Errorf("%w: create listener: %v", world.ErrConfiguration, err)
		}
		if l == nil {
			return nil, fmt.Errorf("%w: create listener: returned nil listener", world.ErrConfiguration)
		}
		srv.listeners = append(srv.listeners, l)
	}

	return srv, nil
}

// Server is a running simulation: one Universe, one script Host and zero or
// more Listeners feeding it connections. Only its tick loop goroutine ever
// mutates the Universe or walks the session registry's world-facing state
// (§5); Clients, the listeners' Accept channels, and the console read from
// it concurrently through the mutex-guarded accessors below.
type Server struct {
	conf Config
	uni  *world.Universe

	scriptHost *script.Host
	listeners  []*transport.Listener
	content    world.LoadContentMsg

	mu       sync.RWMutex
	sessions map[world.ClientID]*session.Session

	start   time.Time
	closing chan struct{}
	closeMu sync.Mutex
	closed  bool
}

// Clients implements script.ClientSource for the embedded script host.
func (srv *Server) Clients() map[world.ClientID]*session.Session {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	out := make(map[world.ClientID]*session.Session, len(srv.sessions))
	for id, s := range srv.sessions {
		out[id] = s
	}
	return out
}

// PlayerCount returns the number of currently connected clients.
func (srv *Server) PlayerCount() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return len(srv.sessions)
}

// Universe returns the server's simulation state, for callers (tests,
// plugins loaded through the script host) that need read access outside
// the tick loop. Mutating it from outside the tick loop violates §5.
func (srv *Server) Universe() *world.Universe { return srv.uni }

// StartTime reports when Run began ticking.
func (srv *Server) StartTime() time.Time { return srv.start }

// Run starts every configured listener and the tick loop, blocking until
// Close is called. A listener that fails does not stop the tick loop; the
// first listener error is returned once Close has stopped it. Per §5, the
// tick loop itself
// (including every call into the script host and Universe) runs entirely
// on the goroutine that calls Run; listeners each get their own goroutine
// for socket I/O only.
func (srv *Server) Run() error {
	srv.start = time.Now()
	var g errgroup.Group
	for _, l := range srv.listeners {
		l := l
		g.Go(l.Serve)
	}
	g.Go(func() error {
		srv.tickLoop()
		return nil
	})
	return g.Wait()
}

// Close stops the tick loop and every listener. Safe to call more than
// once and from any goroutine.
func (srv *Server) Close() error {
	srv.closeMu.Lock()
	defer srv.closeMu.Unlock()
	if srv.closed {
		return nil
	}
	srv.closed = true
	close(srv.closing)

	var firstErr error
	for _, l := range srv.listeners {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	srv.scriptHost.Close()
	return firstErr
}

// tickLoop implements the ordering from §4.7: drain newly accepted
// connections and fire "join", fire "tick", step every session, remove
// closed sessions and fire "leave", drain due tasks, then sleep to hold
// the configured tick rate. It never blocks except on that final sleep
// (§5).
func (srv *Server) tickLoop() {
	interval := time.Second / time.Duration(srv.conf.TPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-srv.closing:
			return
		default:
		}

		srv.acceptAll()

		srv.uni.BeginTick()

		srv.mu.RLock()
		stepping := make([]*session.Session, 0, len(srv.sessions))
		for _, s := range srv.sessions {
			stepping = append(stepping, s)
		}
		srv.mu.RUnlock()
		for _, s := range stepping {
			s.Step()
		}

		srv.reapClosed()

		srv.uni.DrainTasks()

		select {
		case <-ticker.C:
		case <-srv.closing:
			return
		}
	}
}

// acceptAll drains every listener's accept channel without blocking,
// binding each new connection to a freshly created Session and sending it
// the content bundle before any chunk traffic (§6's LoadContentMsg, sent
// once per client ahead of everything else).
func (srv *Server) acceptAll() {
	for _, l := range srv.listeners {
	drain:
		for {
			select {
			case conn, ok := <-l.Accept():
				if !ok {
					break drain
				}
				srv.acceptConn(conn)
			default:
				break drain
			}
		}
	}
}

func (srv *Server) acceptConn(conn *transport.Conn) {
	id := world.ClientID(world.NewEntityID())
	sess := session.New(id, srv.uni, conn, srv.conf.Log)

	srv.mu.Lock()
	srv.sessions[id] = sess
	srv.mu.Unlock()

	conn.Send(srv.content)
	conn.Bind(sess.Enqueue, sess.NotifyDisconnected)

	srv.uni.Events().Fire("join", sess)
}

// reapClosed removes every session Step marked closed this tick and fires
// "leave" for it, matching §4.7 step (d). It runs after every session has
// stepped, so a session that closed mid-tick still had its Step run once
// (the one that observed the disconnect and called Close).
func (srv *Server) reapClosed() {
	srv.mu.Lock()
	var left []*session.Session
	for id, s := range srv.sessions {
		if s.Closed() {
			delete(srv.sessions, id)
			left = append(left, s)
		}
	}
	srv.mu.Unlock()

	for _, s := range left {
		srv.uni.Events().Fire("leave", s)
	}
}
