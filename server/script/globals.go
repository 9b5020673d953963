package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/world"
)

func (h *Host) registerGlobals() {
	L := h.L

	L.SetGlobal("tps", lua.LNumber(h.uni.TPS()))
	L.SetGlobal("deltatime", lua.LNumber(1/float64(h.uni.TPS())))
	L.SetGlobal("ticks_passed", lua.LNumber(0))
	L.SetGlobal("seconds_passed", lua.LNumber(0))

	// Keep ticks_passed/seconds_passed current before any script-registered
	// tick handler runs, since both are read as bare globals rather than
	// functions (per the script API's Globals list).
	h.uni.Events().Register("tick", func(any) error {
		tick := h.uni.CurrentTick()
		L.SetGlobal("ticks_passed", lua.LNumber(tick))
		L.SetGlobal("seconds_passed", lua.LNumber(float64(tick)/float64(h.uni.TPS())))
		return nil
	})

	keys := L.NewTable()
	for name, code := range keyTable {
		keys.RawSetString(name, lua.LNumber(code))
	}
	L.SetGlobal("keys", keys)

	L.SetGlobal("pos", L.NewFunction(h.luaPos))
	L.SetGlobal("tileset", L.NewFunction(h.luaTileset))
	L.SetGlobal("spawn", L.NewFunction(h.luaSpawn))
	L.SetGlobal("get_entity", L.NewFunction(h.luaGetEntity))
	L.SetGlobal("get_client", L.NewFunction(h.luaGetClient))
	L.SetGlobal("get_clients", L.NewFunction(h.luaGetClients))
	L.SetGlobal("register_event", L.NewFunction(h.luaRegisterEvent))
	L.SetGlobal("register_tileset", L.NewFunction(h.luaRegisterTileSet))
	L.SetGlobal("register_entity", L.NewFunction(h.luaRegisterEntity))
	L.SetGlobal("schedule", L.NewFunction(h.luaSchedule))
	L.SetGlobal("load_map_into_world", L.NewFunction(h.luaLoadMapIntoWorld))
}

// luaPos implements pos(x, y, world).
func (h *Host) luaPos(L *lua.LState) int {
	p := world.Position{X: float64(L.CheckNumber(1)), Y: float64(L.CheckNumber(2)), World: world.ID(L.CheckString(3))}
	L.Push(newPosition(L, p))
	return 1
}

// luaTileset implements tileset(name).
func (h *Host) luaTileset(L *lua.LState) int {
	name := L.CheckString(1)
	L.Push(newTileSetHandle(L, h, world.TileSetID(name)))
	return 1
}

// luaSpawn implements spawn(type_id, position).
func (h *Host) luaSpawn(L *lua.LState) int {
	typeID := L.CheckString(1)
	p := checkPosition(L, 2)
	e, err := h.uni.Spawn(world.EntityTypeID(typeID), p)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(newEntity(L, h, e))
	return 1
}

func (h *Host) luaGetEntity(L *lua.LState) int {
	id, err := world.ParseEntityID(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	e, ok := h.uni.Entity(id)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(newEntity(L, h, e))
	return 1
}

func (h *Host) luaGetClient(L *lua.LState) int {
	id, err := world.ParseEntityID(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	s, ok := h.clients.Clients()[world.ClientID(id)]
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(newClient(L, h, s))
	return 1
}

func (h *Host) luaGetClients(L *lua.LState) int {
	out := L.NewTable()
	for id, s := range h.clients.Clients() {
		out.RawSetString(id.String(), newClient(L, h, s))
	}
	L.Push(out)
	return 1
}

// luaRegisterEvent implements register_event(name, handler). The first
// registration for a given name also wires a forwarder onto the Universe's
// EventBus, so Go-fired events (tick, load_chunk, join, leave, ...) reach
// Lua handlers without every call site needing to know about the script
// host; later registrations for the same name just add to the call list.
func (h *Host) luaRegisterEvent(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if _, exists := h.handlers[name]; !exists {
		h.uni.Events().Register(name, func(payload any) error {
			h.Fire(name, h.payloadToLua(payload)...)
			return nil
		})
	}
	h.handlers[name] = append(h.handlers[name], fn)
	return 0
}

// luaRegisterTileSet implements register_tileset(id, tileset_table) where
// tileset_table holds asset = {file, size}, an optional default tile row
// and an optional tiles list of rows, each row shaped as registerTileRow
// describes.
func (h *Host) luaRegisterTileSet(L *lua.LState) int {
	id := world.TileSetID(L.CheckString(1))
	tbl := L.CheckTable(2)

	assetTbl, ok := L.GetField(tbl, "asset").(*lua.LTable)
	if !ok {
		L.RaiseError("register_tileset: missing asset table {file, size}")
		return 0
	}
	file := lua.LVAsString(L.GetField(assetTbl, "file"))
	size := uint8(lua.LVAsNumber(L.GetField(assetTbl, "size")))
	assetBytes, err := h.readAsset(file)
	if err != nil {
		L.RaiseError("register_tileset: %v", err)
		return 0
	}
	ts := world.NewTileSet(assetBytes, size)

	if deflt, ok := L.GetField(tbl, "default").(*lua.LTable); ok {
		registerTileRow(L, ts, deflt)
	}
	if tiles, ok := L.GetField(tbl, "tiles").(*lua.LTable); ok {
		tiles.ForEach(func(_, v lua.LValue) {
			if row, ok := v.(*lua.LTable); ok {
				registerTileRow(L, ts, row)
			}
		})
	}

	if err := h.uni.Registry.RegisterTileSet(id, ts); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// registerTileRow registers one tile definition table of the shape
// {id, collision_mask, asset_pos = {x, y}, ...arbitrary script data}.
func registerTileRow(L *lua.LState, ts *world.TileSet, row *lua.LTable) {
	id := world.TileID(lua.LVAsString(L.GetField(row, "id")))
	var mask uint32
	if m, ok := L.GetField(row, "collision_mask").(lua.LNumber); ok {
		mask = uint32(m)
	}
	var asset *world.AssetCoord
	if pos, ok := L.GetField(row, "asset_pos").(*lua.LTable); ok {
		asset = &world.AssetCoord{
			X: uint8(lua.LVAsNumber(L.GetField(pos, "x"))),
			Y: uint8(lua.LVAsNumber(L.GetField(pos, "y"))),
		}
	}
	L.SetField(row, "collision_mask", lua.LNil)
	L.SetField(row, "asset_pos", lua.LNil)
	if err := ts.Register(id, asset, mask, tableToData(row)); err != nil {
		L.RaiseError("%v", err)
	}
}

// luaRegisterEntity implements register_entity(id, entity_table).
func (h *Host) luaRegisterEntity(L *lua.LState) int {
	id := world.EntityTypeID(L.CheckString(1))
	tbl := L.CheckTable(2)

	et := &world.EntityType{
		Colliders:   map[string]world.Collider{},
		Animations:  map[world.AnimationID]world.AnimationData{},
		DefaultData: map[string]any{},
	}
	et.W = float64(lua.LVAsNumber(L.GetField(tbl, "width")))
	et.H = float64(lua.LVAsNumber(L.GetField(tbl, "height")))
	if colliders, ok := L.GetField(tbl, "colliders").(*lua.LTable); ok {
		colliders.ForEach(func(k, v lua.LValue) {
			row, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			box := checkAABBTable(L, row)
			var mask uint32
			if m, ok := L.GetField(row, "mask").(lua.LNumber); ok {
				mask = uint32(m)
			}
			et.Colliders[k.String()] = world.Collider{AABB: box, Mask: mask}
		})
	}
	if anims, ok := L.GetField(tbl, "animations").(*lua.LTable); ok {
		anims.ForEach(func(k, v lua.LValue) {
			row, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			image, err := h.readAsset(lua.LVAsString(L.GetField(row, "file")))
			if err != nil {
				L.RaiseError("register_entity: %v", err)
				return
			}
			et.Animations[world.AnimationID(k.String())] = world.AnimationData{
				Image:  image,
				Count:  uint16(lua.LVAsNumber(L.GetField(row, "count"))),
				Period: float64(lua.LVAsNumber(L.GetField(row, "period"))),
				Looped: lua.LVAsBool(L.GetField(row, "loop")),
				Flip:   lua.LVAsBool(L.GetField(row, "flip")),
			}
		})
	}
	// Whatever remains on the table after colliders/width/height/animations
	// are pulled out becomes the entity type's default per-entity data,
	// exactly like register_tileset's tile rows.
	L.SetField(tbl, "colliders", lua.LNil)
	L.SetField(tbl, "width", lua.LNil)
	L.SetField(tbl, "height", lua.LNil)
	L.SetField(tbl, "animations", lua.LNil)
	et.DefaultData = tableToData(tbl)
	if err := h.uni.Registry.RegisterEntityType(id, et); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// luaSchedule implements schedule(fn, after_seconds).
func (h *Host) luaSchedule(L *lua.LState) int {
	fn := L.CheckFunction(1)
	after := float64(L.CheckNumber(2))
	h.uni.Schedule(func() (float64, bool) {
		reschedule := false
		nextDelay := 0.0
		if err := luaCall(L, fn, func(rets []lua.LValue) {
			if len(rets) > 0 {
				if n, ok := rets[0].(lua.LNumber); ok {
					nextDelay = float64(n)
					reschedule = true
				}
			}
		}); err != nil {
			h.log.Error("scheduled task failed", "error", err)
		}
		return nextDelay, reschedule
	}, after)
	return 0
}

func luaCall(L *lua.LState, fn *lua.LFunction, onReturn func([]lua.LValue)) error {
	top := L.GetTop()
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("%w: %v", world.ErrScript, err)
	}
	rets := make([]lua.LValue, 0, L.GetTop()-top)
	for i := top + 1; i <= L.GetTop(); i++ {
		rets = append(rets, L.Get(i))
	}
	L.SetTop(top)
	onReturn(rets)
	return nil
}

func tableToData(v lua.LValue) map[string]any {
	tbl, ok := v.(*lua.LTable)
	out := map[string]any{}
	if !ok {
		return out
	}
	tbl.ForEach(func(k, val lua.LValue) {
		out[k.String()] = luaToGo(val)
	})
	return out
}

func luaToGo(v lua.LValue) any {
	switch vv := v.(type) {
	case lua.LBool:
		return bool(vv)
	case lua.LNumber:
		return float64(vv)
	case lua.LString:
		return string(vv)
	case *lua.LTable:
		return tableToData(vv)
	default:
		return nil
	}
}
