package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/geom"
	"github.com/hydro-mc/hydro/server/world"
)

const aabbTypeName = "aabb"

// worldAABB pairs a geometric rectangle with the world it lives in, since
// every collision query needs both (§4.8).
type worldAABB struct {
	box   geom.AABB
	world world.ID
}

func (h *Host) registerAABBType() {
	L := h.L
	mt := L.NewTypeMetatable(aabbTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"position":          aabbPosition,
		"center":            aabbCenter,
		"tiles_overlapping": aabbTilesOverlapping,
		"test_collisions":   h.aabbTestCollisions,
		"test_sweep":        h.aabbTestSweep,
	}))
}

func newAABB(L *lua.LState, box geom.AABB, world world.ID) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = worldAABB{box: box, world: world}
	L.SetMetatable(ud, L.GetTypeMetatable(aabbTypeName))
	return ud
}

func checkAABB(L *lua.LState, n int) worldAABB {
	v, ok := L.CheckUserData(n).Value.(worldAABB)
	if !ok {
		L.ArgError(n, "expected an aabb")
	}
	return v
}

// checkAABBTable reads {x, y, w, h} off a plain Lua table, as used by
// register_entity's collider definitions.
func checkAABBTable(L *lua.LState, tbl *lua.LTable) geom.AABB {
	return geom.New(
		float64(lua.LVAsNumber(L.GetField(tbl, "x"))),
		float64(lua.LVAsNumber(L.GetField(tbl, "y"))),
		float64(lua.LVAsNumber(L.GetField(tbl, "w"))),
		float64(lua.LVAsNumber(L.GetField(tbl, "h"))),
	)
}

func aabbPosition(L *lua.LState) int {
	a := checkAABB(L, 1)
	L.Push(newPosition(L, world.Position{X: a.box.X, Y: a.box.Y, World: a.world}))
	return 1
}

func aabbCenter(L *lua.LState) int {
	a := checkAABB(L, 1)
	L.Push(newPosition(L, world.Position{X: a.box.X + a.box.W/2, Y: a.box.Y + a.box.H/2, World: a.world}))
	return 1
}

func aabbTilesOverlapping(L *lua.LState) int {
	a := checkAABB(L, 1)
	out := L.NewTable()
	for _, t := range geom.TilesOverlapping(a.box) {
		out.Append(newPosition(L, world.Position{X: float64(t.X), Y: float64(t.Y), World: a.world}))
	}
	L.Push(out)
	return 1
}

func (h *Host) aabbTestCollisions(L *lua.LState) int {
	a := checkAABB(L, 1)
	mask := uint32(L.CheckNumber(2))
	L.Push(lua.LBool(h.uni.TestCollisions(a.world, a.box, mask)))
	return 1
}

func (h *Host) aabbTestSweep(L *lua.LState) int {
	a := checkAABB(L, 1)
	mask := uint32(L.CheckNumber(2))
	target := checkPosition(L, 3)
	if target.World != a.world {
		L.RaiseError("mismatched world")
		return 0
	}
	t, contactBox := h.uni.TestSweep(a.world, a.box, mask, target.Vec2())
	L.Push(lua.LNumber(t))
	L.Push(newPosition(L, world.Position{X: contactBox.X, Y: contactBox.Y, World: a.world}))
	return 2
}
