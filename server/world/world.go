package world

import (
	"log/slog"

	"github.com/hydro-mc/hydro/server/geom"
)

// World owns a sparse chunk grid; the entities resident in its chunks are
// indexed globally by the owning Universe. Worlds are created lazily by
// Universe.World and are never destroyed (per §3).
type World struct {
	id     ID
	uni    *Universe
	chunks map[ChunkCoord]*Chunk
}

func newWorld(id ID, uni *Universe) *World {
	return &World{id: id, uni: uni, chunks: map[ChunkCoord]*Chunk{}}
}

// ID returns the world's interned identifier.
func (w *World) ID() ID { return w.id }

// Chunk returns the chunk at coord, creating it on first access. Creation
// enqueues a one-shot "load_chunk" task (§4.7) rather than firing the event
// synchronously, so that code in the middle of mutating the chunk map is
// never re-entered from within Chunk itself.
func (w *World) Chunk(coord ChunkCoord) *Chunk {
	if c, ok := w.chunks[coord]; ok {
		return c
	}
	c := newChunk(coord)
	w.chunks[coord] = c
	origin := geom.Vec2{X: float64(coord.X) * ChunkSize, Y: float64(coord.Y) * ChunkSize}
	wid := w.id
	w.uni.scheduler.schedule(func() (float64, bool) {
		w.uni.EventBus.Fire("load_chunk", Position{X: origin.X, Y: origin.Y, World: wid})
		return 0, false
	}, 0, w.uni.tps)
	return c
}

// PeekChunk returns the chunk at coord without creating it.
func (w *World) PeekChunk(coord ChunkCoord) (*Chunk, bool) {
	c, ok := w.chunks[coord]
	return c, ok
}

// Universe is the top-level owner of every World, the immutable content
// registry, the task scheduler and the event dispatcher. It is the single
// piece of authoritative state the tick loop advances once per tick; all
// access to it happens from the tick-loop goroutine (§5).
type Universe struct {
	log        *slog.Logger
	Registry   *Registry
	tps        int
	loadRadius int16
	tick       Tick
	worlds     map[ID]*World
	entities   map[EntityID]*Entity
	scheduler  *scheduler
	EventBus   *EventBus
}

// NewUniverse returns an empty Universe ticking at tps with the given
// interest-window radius (LOAD_RADIUS, in chunks).
func NewUniverse(log *slog.Logger, registry *Registry, tps, loadRadius int) *Universe {
	if log == nil {
		log = slog.Default()
	}
	return &Universe{
		log:        log,
		Registry:   registry,
		tps:        tps,
		loadRadius: int16(loadRadius),
		worlds:     map[ID]*World{},
		entities:   map[EntityID]*Entity{},
		scheduler:  newScheduler(),
		EventBus:   NewEventBus(log),
	}
}

// TPS returns the fixed simulation rate.
func (u *Universe) TPS() int { return u.tps }

// LoadRadius returns the interest-window radius, in chunks.
func (u *Universe) LoadRadius() int16 { return u.loadRadius }

// CurrentTick returns the monotonic tick counter.
func (u *Universe) CurrentTick() Tick { return u.tick }

// World returns the world with the given id, creating it (empty, with no
// chunks) on first access. Worlds are never destroyed.
func (u *Universe) World(id ID) *World {
	w, ok := u.worlds[id]
	if !ok {
		w = newWorld(id, u)
		u.worlds[id] = w
	}
	return w
}

// Events returns the event dispatcher scripts register handlers on.
func (u *Universe) Events() *EventBus { return u.EventBus }

// Schedule queues fn to run at or after current_tick + ceil(after*tps). If
// fn returns (delay, true), it is rescheduled from the tick it ran on.
func (u *Universe) Schedule(fn TaskFunc, after float64) {
	u.scheduler.schedule(fn, after, u.tps)
}

// Advance runs one tick: it fires the "tick" event and drains every
// scheduled task now due. It is exactly BeginTick followed by DrainTasks,
// provided as a single call for tests and for any driver that doesn't need
// to interleave session stepping between the two; the tick loop in
// server.go calls BeginTick and DrainTasks separately for that reason.
func (u *Universe) Advance() {
	u.BeginTick()
	u.DrainTasks()
}

// BeginTick increments the monotonic tick counter and fires the "tick"
// event to every registered handler (§4.7 step b). Callers that need to
// step sessions between the tick event and task draining (the server tick
// loop) call this and DrainTasks separately instead of Advance.
func (u *Universe) BeginTick() {
	u.tick++
	// Tasks scheduled from tick handlers or session steps count their delay
	// from this tick, not from the previous drain.
	u.scheduler.now = u.tick
	u.EventBus.Fire("tick", nil)
}

// DrainTasks pops and runs every scheduled task now due (§4.7 step e).
func (u *Universe) DrainTasks() {
	u.scheduler.drainDue(u.tick, u.tps)
}

// InterestWindow returns the set of chunk coordinates within the
// L-infinity ball of radius LoadRadius around the chunk containing pos.
func (u *Universe) InterestWindow(pos geom.Vec2) []ChunkCoord {
	base := ChunkCoordOf(pos)
	r := u.loadRadius
	out := make([]ChunkCoord, 0, int(2*r+1)*int(2*r+1))
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			out = append(out, ChunkCoord{X: base.X + dx, Y: base.Y + dy})
		}
	}
	return out
}
