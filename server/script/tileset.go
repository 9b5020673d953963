package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/world"
)

const tileSetHandleTypeName = "tileset_handle"

// tileSetHandle is the userdata returned by tileset(name): a handle bound
// to one tileset id that scripts read/write tiles through (§4.3's
// TileMapHandle).
type tileSetHandle struct {
	h  *Host
	id world.TileSetID
}

func (h *Host) registerTileSetHandleType() {
	L := h.L
	mt := L.NewTypeMetatable(tileSetHandleTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get_at":      tileSetGetAt,
		"set_at":      tileSetSetAt,
		"get_data_at": tileSetGetDataAt,
	}))
}

func newTileSetHandle(L *lua.LState, h *Host, id world.TileSetID) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = tileSetHandle{h: h, id: id}
	L.SetMetatable(ud, L.GetTypeMetatable(tileSetHandleTypeName))
	return ud
}

func checkTileSetHandle(L *lua.LState, n int) tileSetHandle {
	v, ok := L.CheckUserData(n).Value.(tileSetHandle)
	if !ok {
		L.ArgError(n, "expected a tileset handle")
	}
	return v
}

func tileSetGetAt(L *lua.LState) int {
	ts := checkTileSetHandle(L, 1)
	pos := checkPosition(L, 2)
	tile, err := ts.h.uni.TileAtPos(ts.id, pos)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(goToLua(L, tile.Data))
	return 1
}

func tileSetSetAt(L *lua.LState) int {
	ts := checkTileSetHandle(L, 1)
	pos := checkPosition(L, 2)
	id := L.CheckString(3)
	if err := ts.h.uni.SetTileAt(ts.id, pos, world.TileID(id)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func tileSetGetDataAt(L *lua.LState) int {
	ts := checkTileSetHandle(L, 1)
	pos := checkPosition(L, 2)
	data, err := ts.h.uni.TileDataAt(ts.id, pos)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(newDataTable(L, data))
	return 1
}
