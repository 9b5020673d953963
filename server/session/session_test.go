package session

import (
	"testing"

	"github.com/hydro-mc/hydro/server/world"
)

type fakeOutbound struct {
	sent   []any
	closed bool
}

func (f *fakeOutbound) Send(msg any) { f.sent = append(f.sent, msg) }
func (f *fakeOutbound) Close()       { f.closed = true }

func newTestUniverse(t *testing.T) *world.Universe {
	t.Helper()
	reg := world.NewRegistry()
	if err := reg.RegisterEntityType("player", &world.EntityType{
		Colliders:   map[string]world.Collider{},
		Animations:  map[world.AnimationID]world.AnimationData{"default": {}},
		W:           1, H: 1,
		DefaultData: map[string]any{},
	}); err != nil {
		t.Fatalf("register entity type: %v", err)
	}
	return world.NewUniverse(nil, reg, 30, 1)
}

func TestCameraAtPositionLoadsInterestWindow(t *testing.T) {
	u := newTestUniverse(t)
	out := &fakeOutbound{}
	s := New(world.ClientID(world.NewEntityID()), u, out, nil)

	s.SetCamera(CameraAt(world.Position{X: 0, Y: 0, World: "w"}))

	var loads int
	for _, m := range out.sent {
		if _, ok := m.(world.LoadChunkMsg); ok {
			loads++
		}
	}
	want := 3 * 3 // radius 1
	if loads != want {
		t.Fatalf("expected %d LoadChunk messages, got %d (%v)", want, loads, out.sent)
	}
}

func TestCameraNoneHasNoInterest(t *testing.T) {
	u := newTestUniverse(t)
	out := &fakeOutbound{}
	s := New(world.ClientID(world.NewEntityID()), u, out, nil)

	s.Step()

	for _, m := range out.sent {
		if _, ok := m.(world.LoadChunkMsg); ok {
			t.Fatalf("expected no LoadChunk with no camera, got %#v", m)
		}
	}
}

func TestCameraFollowingTracksEntity(t *testing.T) {
	u := newTestUniverse(t)
	e, err := u.Spawn("player", world.Position{X: 0, Y: 0, World: "w"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	out := &fakeOutbound{}
	s := New(world.ClientID(world.NewEntityID()), u, out, nil)
	s.SetCamera(CameraFollowing(e.ID()))

	out.sent = nil
	u.SetPosition(e, world.Position{X: 100, Y: 0, World: "w"})
	s.Step()

	var loaded bool
	for _, m := range out.sent {
		if lc, ok := m.(world.LoadChunkMsg); ok && lc.Coord == world.ChunkCoordOf(e.Position().Vec2()) {
			loaded = true
		}
	}
	if !loaded {
		t.Fatalf("expected the followed entity's new chunk to be loaded after Step, got %v", out.sent)
	}
}

func TestCameraFollowingRemovedEntityStopsLoading(t *testing.T) {
	u := newTestUniverse(t)
	e, err := u.Spawn("player", world.Position{X: 0, Y: 0, World: "w"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	out := &fakeOutbound{}
	s := New(world.ClientID(world.NewEntityID()), u, out, nil)
	s.SetCamera(CameraFollowing(e.ID()))

	u.Remove(e)
	out.sent = nil
	s.Step()

	for _, m := range out.sent {
		if _, ok := m.(world.LoadChunkMsg); ok {
			t.Fatalf("expected no further loads once the followed entity is removed, got %#v", m)
		}
	}
}

func TestCloseUnloadsEverything(t *testing.T) {
	u := newTestUniverse(t)
	out := &fakeOutbound{}
	s := New(world.ClientID(world.NewEntityID()), u, out, nil)
	s.SetCamera(CameraAt(world.Position{X: 0, Y: 0, World: "w"}))

	out.sent = nil
	s.Close()

	var unloads int
	for _, m := range out.sent {
		if _, ok := m.(world.UnloadChunkMsg); ok {
			unloads++
		}
	}
	if unloads != 9 {
		t.Fatalf("expected 9 UnloadChunk messages on close, got %d", unloads)
	}
	if !out.closed {
		t.Fatalf("expected the outbound transport to be closed")
	}
}

func TestCameraPositionResolvesWorldForMousePosition(t *testing.T) {
	u := newTestUniverse(t)
	out := &fakeOutbound{}
	s := New(world.ClientID(world.NewEntityID()), u, out, nil)

	if _, ok := s.CameraPosition(); ok {
		t.Fatalf("expected no resolvable camera position before SetCamera")
	}

	s.SetCamera(CameraAt(world.Position{X: 3, Y: 4, World: "w"}))
	pos, ok := s.CameraPosition()
	if !ok || pos.World != "w" {
		t.Fatalf("expected camera position tagged with world %q, got %+v (ok=%v)", "w", pos, ok)
	}
}

func TestInputPressReleaseUnionAcrossFrames(t *testing.T) {
	u := newTestUniverse(t)
	out := &fakeOutbound{}
	s := New(world.ClientID(world.NewEntityID()), u, out, nil)

	s.Enqueue(PlayerInputFrame{
		KeysDown:    map[uint16]struct{}{1: {}},
		KeysPressed: map[uint16]struct{}{1: {}},
	})
	s.Enqueue(PlayerInputFrame{
		KeysDown:     map[uint16]struct{}{},
		KeysReleased: map[uint16]struct{}{1: {}},
	})
	s.Step()

	in := s.Input()
	if in.IsKeyDown(1) {
		t.Fatalf("key 1 should be up after the second frame released it")
	}
	if !in.IsKeyPressed(1) {
		t.Fatalf("press edge from the first frame should survive the merge")
	}
	if !in.IsKeyReleased(1) {
		t.Fatalf("release edge from the second frame should survive the merge")
	}

	s.Step()
	in = s.Input()
	if in.IsKeyPressed(1) || in.IsKeyReleased(1) {
		t.Fatalf("edge sets must clear on the next tick with no new frames, got %+v", in)
	}
}
