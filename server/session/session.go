package session

import (
	"log/slog"
	"sync"

	"github.com/hydro-mc/hydro/server/world"
)

// Outbound is the transport-facing side of a Session: anything that can
// accept an encoded-later S2C message and a close request. *transport.Conn
// implements it; keeping it narrow here means session never imports the
// transport package.
type Outbound interface {
	Send(msg any)
	Close()
}

// Session is one connected client's server-side state: its buffered input,
// its camera, and the set of chunks currently loaded into it (§4.6). A
// Session implements world.Viewer, so the world package can broadcast
// replication messages to it without knowing anything else about it.
type Session struct {
	id  world.ClientID
	uni *world.Universe
	out Outbound
	log *slog.Logger

	mu     sync.Mutex
	queued []PlayerInputFrame

	input  Input
	camera Camera

	world     world.ID
	chunks    []world.ChunkCoord
	haveWorld bool
	closed    bool

	// transportDisconnected is set by NotifyDisconnected, which the
	// transport's read goroutine calls once the socket errors or closes.
	// Step (running on the main tick-loop goroutine) observes it and tears
	// the session down there, so world mutation never happens off the
	// tick-loop goroutine (§5's "one mutator, no re-entry" discipline).
	transportDisconnected bool
}

// New returns a session with no camera and an empty interest window, bound
// to uni and writing replicated messages to out.
func New(id world.ClientID, uni *world.Universe, out Outbound, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		id:     id,
		uni:    uni,
		out:    out,
		log:    log,
		input:  newInput(),
		camera: CameraNone(),
	}
}

// ID implements world.Viewer.
func (s *Session) ID() world.ClientID { return s.id }

// Send implements world.Viewer by forwarding the message to the transport.
func (s *Session) Send(msg any) { s.out.Send(msg) }

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Enqueue buffers a PlayerInput frame decoded off the transport. It is safe
// to call from the connection's read goroutine; buffered frames are merged
// into the tick-visible Input snapshot on the next Step.
func (s *Session) Enqueue(frame PlayerInputFrame) {
	s.mu.Lock()
	s.queued = append(s.queued, frame)
	s.mu.Unlock()
}

// NotifyDisconnected records that the underlying transport has gone away.
// It is the only Session method safe to call from a goroutine other than
// the tick loop: it only ever touches the mutex-guarded flag Step checks,
// never world state.
func (s *Session) NotifyDisconnected() {
	s.mu.Lock()
	s.transportDisconnected = true
	s.mu.Unlock()
}

// SetCamera changes what the session's interest window is centered on and
// immediately reconciles the window against the camera's current position,
// the same reconciliation Step repeats every tick for a camera that follows
// an entity (§4.5).
func (s *Session) SetCamera(c Camera) {
	s.camera = c
	s.refreshInterest()
}

// Input returns the session's current per-tick input snapshot.
func (s *Session) Input() Input { return s.input }

// CameraPosition resolves the session's camera to a world position, as used
// by mouse_position to tag the client's raw mouse coordinates with the
// world its camera is currently looking at (§4.8). The second result is
// false when the camera has nothing to resolve to (CameraNone, or a
// followed entity that has since been removed).
func (s *Session) CameraPosition() (world.Position, bool) {
	return s.camera.resolve(s.uni)
}

// Step runs one tick of session bookkeeping: it resets the edge-triggered
// press/release sets, merges every PlayerInput frame received since the
// last tick, and refreshes the camera-driven interest window. Called once
// per entry in the session registry from the server tick loop, between
// Universe.BeginTick and Universe.DrainTasks (§4.7).
func (s *Session) Step() {
	s.mu.Lock()
	disconnected := s.transportDisconnected
	frames := s.queued
	s.queued = nil
	s.mu.Unlock()

	if disconnected {
		// §4.6: if the inbound channel is disconnected, set closed and
		// stop — this tick's frames (if any arrived in the same race) are
		// discarded rather than applied.
		s.Close()
		return
	}

	s.input.KeysPressed = map[uint16]struct{}{}
	s.input.KeysReleased = map[uint16]struct{}{}
	s.input.ButtonsPressed = map[MouseButton]struct{}{}
	s.input.ButtonsReleased = map[MouseButton]struct{}{}
	for _, f := range frames {
		s.input.apply(f)
	}

	// Only a following camera needs re-resolving on every tick; a fixed
	// position or no camera at all can't have moved since it was last set.
	if s.camera.kind == cameraEntity {
		s.refreshInterest()
	}
}

// refreshInterest resolves the camera to a world position and, if it
// resolves, diffs the session's previously-loaded chunk set against the
// new interest window via Universe.UpdateInterest. A camera that no longer
// resolves (CameraNone, or a removed followed entity) unloads whatever was
// loaded and leaves the session with an empty window, rather than erroring.
func (s *Session) refreshInterest() {
	pos, ok := s.camera.resolve(s.uni)
	if !ok {
		if s.haveWorld {
			s.uni.UpdateInterest(s, s.world, s.chunks, s.world, nil)
		}
		s.haveWorld = false
		s.chunks = nil
		return
	}

	next := s.uni.InterestWindow(pos.Vec2())
	if !s.haveWorld {
		s.uni.UpdateInterest(s, pos.World, nil, pos.World, next)
	} else {
		s.uni.UpdateInterest(s, s.world, s.chunks, pos.World, next)
	}
	s.world = pos.World
	s.chunks = next
	s.haveWorld = true
	s.Send(world.CameraInfoMsg{Pos: pos.Vec2()})
}

// Close tears down the session's interest window (unloading every chunk it
// had loaded) and marks it closed. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.haveWorld {
		s.uni.UpdateInterest(s, s.world, s.chunks, s.world, nil)
		s.haveWorld = false
		s.chunks = nil
	}
	s.out.Close()
}
