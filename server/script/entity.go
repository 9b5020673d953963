package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/world"
)

const entityTypeName = "entity"

// entityHandle is the userdata value bridged to scripts for a live entity.
// Its script-visible data table is the entity's own e.Data map, so
// arbitrary script fields (entity.foo = 1) pass through to e.Data via the
// __index/__newindex pair below.
type entityHandle struct {
	h *Host
	e *world.Entity
}

func (h *Host) registerEntityType() {
	L := h.L
	mt := L.NewTypeMetatable(entityTypeName)
	L.SetField(mt, "__index", L.NewFunction(entityIndex))
	L.SetField(mt, "__newindex", L.NewFunction(entityNewIndex))
}

func newEntity(L *lua.LState, h *Host, e *world.Entity) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = entityHandle{h: h, e: e}
	L.SetMetatable(ud, L.GetTypeMetatable(entityTypeName))
	return ud
}

func checkEntity(L *lua.LState, n int) entityHandle {
	v, ok := L.CheckUserData(n).Value.(entityHandle)
	if !ok {
		L.ArgError(n, "expected an entity")
	}
	return v
}

// entityIndex implements field reads (id, position, removed, animation,
// animation_time) and method dispatch (remove, get_collider), falling back
// to the entity's script data table for anything else (§9's script-data
// passthrough design).
func entityIndex(L *lua.LState) int {
	eh := checkEntity(L, 1)
	key := L.CheckString(2)
	switch key {
	case "id":
		L.Push(lua.LString(eh.e.ID().String()))
		return 1
	case "position":
		L.Push(newPosition(L, eh.e.Position()))
		return 1
	case "removed":
		L.Push(lua.LBool(eh.e.Removed()))
		return 1
	case "animation":
		anim := eh.e.Animation(eh.h.uni.TPS(), eh.h.uni.CurrentTick())
		L.Push(lua.LString(string(anim.ID)))
		return 1
	case "animation_time":
		anim := eh.e.Animation(eh.h.uni.TPS(), eh.h.uni.CurrentTick())
		L.Push(lua.LNumber(anim.Time))
		return 1
	case "remove":
		L.Push(L.NewFunction(entityRemove))
		return 1
	case "get_collider":
		L.Push(L.NewFunction(entityGetCollider))
		return 1
	}
	if v, ok := eh.e.Data[key]; ok {
		L.Push(goToLua(L, v))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

// entityNewIndex implements field writes: position, animation and
// animation_time are intercepted into Universe mutations (§4.4);
// everything else lands in the entity's script data table.
func entityNewIndex(L *lua.LState) int {
	eh := checkEntity(L, 1)
	key := L.CheckString(2)
	val := L.Get(3)
	switch key {
	case "position":
		p := checkPosition(L, 3)
		eh.h.uni.SetPosition(eh.e, p)
		return 0
	case "animation":
		if err := eh.h.uni.SetAnimation(eh.e, world.AnimationID(lua.LVAsString(val))); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	case "animation_time":
		eh.h.uni.SetAnimationTime(eh.e, float64(lua.LVAsNumber(val)))
		return 0
	}
	eh.e.Data[key] = luaToGo(val)
	return 0
}

func entityRemove(L *lua.LState) int {
	eh := checkEntity(L, 1)
	eh.h.uni.Remove(eh.e)
	return 0
}

func entityGetCollider(L *lua.LState) int {
	eh := checkEntity(L, 1)
	name := L.CheckString(2)
	et, ok := eh.h.uni.Registry.EntityType(eh.e.TypeID)
	if !ok {
		L.RaiseError("entity type %q no longer registered", eh.e.TypeID)
		return 0
	}
	c, ok := et.Colliders[name]
	if !ok {
		L.RaiseError("entity type %q has no collider %q", eh.e.TypeID, name)
		return 0
	}
	box := c.AABB.Offset(eh.e.Position().Vec2())
	L.Push(newAABB(L, box, eh.e.Position().World))
	return 1
}

// goToLua converts a Go value stored in an entity's data table (built from
// luaToGo on write) back into an LValue for reads.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch vv := v.(type) {
	case bool:
		return lua.LBool(vv)
	case float64:
		return lua.LNumber(vv)
	case string:
		return lua.LString(vv)
	case map[string]any:
		tbl := L.NewTable()
		for k, val := range vv {
			tbl.RawSetString(k, goToLua(L, val))
		}
		return tbl
	default:
		return lua.LNil
	}
}
