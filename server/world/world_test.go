package world

import (
	"testing"

	"github.com/hydro-mc/hydro/server/geom"
)

type fakeViewer struct {
	id   ClientID
	sent []any
}

func newFakeViewer() *fakeViewer { return &fakeViewer{id: ClientID(NewEntityID())} }

func (f *fakeViewer) ID() ClientID  { return f.id }
func (f *fakeViewer) Send(msg any) { f.sent = append(f.sent, msg) }

func newTestUniverse(t *testing.T) *Universe {
	t.Helper()
	reg := NewRegistry()
	if err := reg.RegisterEntityType("player", &EntityType{
		Colliders:   map[string]Collider{},
		Animations:  map[AnimationID]AnimationData{"default": {}, "walk": {}},
		W:           1, H: 1,
		DefaultData: map[string]any{},
	}); err != nil {
		t.Fatalf("register entity type: %v", err)
	}
	return NewUniverse(nil, reg, 30, 4)
}

// Scenario 1 from §8: spawn within an existing viewer's interest window
// yields exactly one AddEntity.
func TestSpawnNotifiesViewers(t *testing.T) {
	u := newTestUniverse(t)
	w := u.World("w")
	chunk := w.Chunk(ChunkCoordOf(geom.Vec2{X: 5, Y: 5}))
	viewer := newFakeViewer()
	chunk.addViewer(viewer)

	e, err := u.Spawn("player", Position{X: 5, Y: 5, World: "w"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(viewer.sent) != 1 {
		t.Fatalf("expected exactly one message, got %d: %v", len(viewer.sent), viewer.sent)
	}
	add, ok := viewer.sent[0].(AddEntityMsg)
	if !ok || add.Entity.ID != e.ID() {
		t.Fatalf("expected AddEntity(%v), got %#v", e.ID(), viewer.sent[0])
	}
}

// P1: after spawn/move/remove, a live entity is in exactly the chunk
// floor_div(position, 32).
func TestEntityResidencyInvariant(t *testing.T) {
	u := newTestUniverse(t)
	e, err := u.Spawn("player", Position{X: 1, Y: 1, World: "w"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	assertResident(t, u, e)

	u.SetPosition(e, Position{X: 100, Y: -5, World: "w"})
	assertResident(t, u, e)

	u.Remove(e)
	if !e.Removed() {
		t.Fatalf("expected entity to be marked removed")
	}
}

func assertResident(t *testing.T, u *Universe, e *Entity) {
	t.Helper()
	w := u.World(e.Position().World)
	coord := ChunkCoordOf(e.Position().Vec2())
	chunk, ok := w.PeekChunk(coord)
	if !ok {
		t.Fatalf("expected chunk %v to exist", coord)
	}
	if _, ok := chunk.entities[e.ID()]; !ok {
		t.Fatalf("entity %v missing from its resident chunk %v", e.ID(), coord)
	}
}

// Scenario 2 from §8: chunk crossing moves a viewer's Add/Remove correctly.
func TestChunkCrossingDiffsViewers(t *testing.T) {
	u := newTestUniverse(t)
	w := u.World("w")
	chunkA := w.Chunk(ChunkCoord{X: 0, Y: 0})
	chunkB := w.Chunk(ChunkCoord{X: 1, Y: 0})
	a, b := newFakeViewer(), newFakeViewer()
	chunkA.addViewer(a)
	chunkB.addViewer(b)

	e, err := u.Spawn("player", Position{X: 31, Y: 0, World: "w"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	a.sent, b.sent = nil, nil // reset post-spawn noise

	u.SetPosition(e, Position{X: 32, Y: 0, World: "w"})

	if len(a.sent) != 1 {
		t.Fatalf("viewer A: want 1 message, got %v", a.sent)
	}
	if _, ok := a.sent[0].(RemoveEntityMsg); !ok {
		t.Fatalf("viewer A: want RemoveEntity, got %#v", a.sent[0])
	}
	if len(b.sent) != 1 {
		t.Fatalf("viewer B: want 1 message, got %v", b.sent)
	}
	if add, ok := b.sent[0].(AddEntityMsg); !ok || add.Entity.ID != e.ID() {
		t.Fatalf("viewer B: want AddEntity, got %#v", b.sent[0])
	}
}

// P3: per-entity message ordering is Add, then only Updates, then Remove.
func TestMessageOrderingPerEntity(t *testing.T) {
	u := newTestUniverse(t)
	w := u.World("w")
	chunk := w.Chunk(ChunkCoord{X: 0, Y: 0})
	v := newFakeViewer()
	chunk.addViewer(v)

	e, err := u.Spawn("player", Position{X: 1, Y: 1, World: "w"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	u.SetPosition(e, Position{X: 2, Y: 2, World: "w"})
	if err := u.SetAnimation(e, "walk"); err != nil {
		t.Fatalf("set animation: %v", err)
	}
	u.Remove(e)

	if len(v.sent) < 2 {
		t.Fatalf("expected at least add+remove, got %v", v.sent)
	}
	if _, ok := v.sent[0].(AddEntityMsg); !ok {
		t.Fatalf("first message must be AddEntity, got %#v", v.sent[0])
	}
	last := v.sent[len(v.sent)-1]
	if _, ok := last.(RemoveEntityMsg); !ok {
		t.Fatalf("last message must be RemoveEntity, got %#v", last)
	}
	for _, m := range v.sent[1 : len(v.sent)-1] {
		switch m.(type) {
		case UpdateEntityPositionMsg, UpdateEntityAnimationMsg:
		default:
			t.Fatalf("unexpected message between add and remove: %#v", m)
		}
	}
}

func TestSetAnimationRejectsUnknown(t *testing.T) {
	u := newTestUniverse(t)
	e, err := u.Spawn("player", Position{X: 0, Y: 0, World: "w"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if err := u.SetAnimation(e, "nonexistent"); err == nil {
		t.Fatalf("expected error for unknown animation")
	}
}

func TestChunkCreationSchedulesLoadChunkEvent(t *testing.T) {
	u := newTestUniverse(t)
	var fired bool
	u.Events().Register("load_chunk", func(payload any) error {
		fired = true
		return nil
	})
	u.World("w").Chunk(ChunkCoord{X: 2, Y: 3})
	if fired {
		t.Fatalf("load_chunk must not fire synchronously from Chunk()")
	}
	u.Advance()
	if !fired {
		t.Fatalf("load_chunk should have fired once the scheduled task drained")
	}
}
