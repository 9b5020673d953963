package script

import lua "github.com/yuin/gopher-lua"

const dataTableTypeName = "data_table"

// dataTable is a live view over a map[string]any owned by the world (a
// per-tile data table, as returned by get_data_at): reads and writes go
// straight through to the backing map, so two handles to the same table
// observe each other's writes, matching the script API's shared per-tile
// data semantics (§4.3, §9).
type dataTable struct {
	m map[string]any
}

func (h *Host) registerDataTableType() {
	L := h.L
	mt := L.NewTypeMetatable(dataTableTypeName)
	L.SetField(mt, "__index", L.NewFunction(dataTableIndex))
	L.SetField(mt, "__newindex", L.NewFunction(dataTableNewIndex))
}

func newDataTable(L *lua.LState, m map[string]any) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = dataTable{m: m}
	L.SetMetatable(ud, L.GetTypeMetatable(dataTableTypeName))
	return ud
}

func checkDataTable(L *lua.LState, n int) dataTable {
	v, ok := L.CheckUserData(n).Value.(dataTable)
	if !ok {
		L.ArgError(n, "expected a data table")
	}
	return v
}

func dataTableIndex(L *lua.LState) int {
	dt := checkDataTable(L, 1)
	key := L.CheckString(2)
	v, ok := dt.m[key]
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(goToLua(L, v))
	return 1
}

func dataTableNewIndex(L *lua.LState) int {
	dt := checkDataTable(L, 1)
	key := L.CheckString(2)
	dt.m[key] = luaToGo(L.Get(3))
	return 0
}
