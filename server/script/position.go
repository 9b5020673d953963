package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/world"
)

const positionTypeName = "position"

func registerPositionType(L *lua.LState) {
	mt := L.NewTypeMetatable(positionTypeName)
	L.SetField(mt, "__index", L.NewFunction(positionIndex))
}

func newPosition(L *lua.LState, p world.Position) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = p
	L.SetMetatable(ud, L.GetTypeMetatable(positionTypeName))
	return ud
}

func checkPosition(L *lua.LState, n int) world.Position {
	ud, ok := L.CheckUserData(n).Value.(world.Position)
	if !ok {
		L.ArgError(n, "expected a position")
	}
	return ud
}

func positionIndex(L *lua.LState) int {
	p := checkPosition(L, 1)
	switch L.CheckString(2) {
	case "x":
		L.Push(lua.LNumber(p.X))
	case "y":
		L.Push(lua.LNumber(p.Y))
	case "world":
		L.Push(lua.LString(string(p.World)))
	default:
		L.Push(lua.LNil)
	}
	return 1
}
