package script

import (
	"testing"

	"github.com/hydro-mc/hydro/server/session"
	"github.com/hydro-mc/hydro/server/world"
)

type noClients struct{}

func (noClients) Clients() map[world.ClientID]*session.Session { return nil }

func newTestHost(t *testing.T) *Host {
	t.Helper()
	reg := world.NewRegistry()
	uni := world.NewUniverse(nil, reg, 30, 4)
	return New(uni, noClients{}, nil, t.TempDir())
}

func TestSpawnAndPositionRoundtrip(t *testing.T) {
	h := newTestHost(t)
	defer h.Close()

	script := `
		register_entity("player", {width = 1, height = 1, colliders = {}, animations = {}})
		e = spawn("player", pos(1, 2, "w"))
		assert(e.position.x == 1)
		assert(e.position.y == 2)
		e.position = pos(5, 5, "w")
		assert(e.position.x == 5)
	`
	if err := h.L.DoString(script); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func TestRegisterEventAndFire(t *testing.T) {
	h := newTestHost(t)
	defer h.Close()

	if err := h.L.DoString(`
		fired = false
		register_event("tick", function() fired = true end)
	`); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	h.Fire("tick")
	if v := h.L.GetGlobal("fired"); v.String() != "true" {
		t.Fatalf("expected the tick handler to have run, got fired=%v", v)
	}
}

func TestAABBTestSweepReturnsTimeAndPosition(t *testing.T) {
	h := newTestHost(t)
	defer h.Close()

	script := `
		register_entity("wall", {width = 1, height = 1, colliders = {body = {x = 0, y = 0, w = 1, h = 1, mask = 1}}, animations = {}})
		register_entity("mover", {width = 1, height = 1, colliders = {body = {x = 0, y = 0, w = 1, h = 1, mask = 1}}, animations = {}})
		spawn("wall", pos(5, 0, "w"))
		local mover = spawn("mover", pos(0, 0, "w"))
		local box = mover:get_collider("body")
		local t, contact = box:test_sweep(1, pos(10, 0, "w"))
		assert(t < 1, "expected a collision before reaching the target")
		assert(contact.x < 10, "contact position should be short of the uninterrupted target")
	`
	if err := h.L.DoString(script); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

type fakeOutbound struct{ closed bool }

func (f *fakeOutbound) Send(msg any) {}
func (f *fakeOutbound) Close()       { f.closed = true }

func TestJoinEventDeliversUsableClient(t *testing.T) {
	h := newTestHost(t)
	defer h.Close()

	if err := h.L.DoString(`
		register_entity("player", {width = 1, height = 1, colliders = {}, animations = {}})
		joined_id = nil
		register_event("join", function(client)
			local e = spawn("player", pos(0, 0, "w"))
			client:set_camera_entity(e)
			joined_id = client.id
		end)
	`); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	id := world.ClientID(world.NewEntityID())
	sess := session.New(id, h.uni, &fakeOutbound{}, nil)
	h.uni.Events().Fire("join", sess)

	if v := h.L.GetGlobal("joined_id"); v.String() != id.String() {
		t.Fatalf("expected the join handler's client.id to be %q, got %v", id.String(), v)
	}
}

func TestEntityDataPassthrough(t *testing.T) {
	h := newTestHost(t)
	defer h.Close()

	script := `
		register_entity("player", {width = 1, height = 1, colliders = {}, animations = {}})
		e = spawn("player", pos(0, 0, "w"))
		e.health = 10
		assert(e.health == 10)
	`
	if err := h.L.DoString(script); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}
