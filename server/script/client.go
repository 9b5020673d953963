package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/session"
	"github.com/hydro-mc/hydro/server/world"
)

const clientTypeName = "client"

// clientHandle is the userdata bridged to scripts for a connected
// session: camera control and per-tick input state (§4.6).
type clientHandle struct {
	h *Host
	s *session.Session
}

func (h *Host) registerClientType() {
	L := h.L
	mt := L.NewTypeMetatable(clientTypeName)
	L.SetField(mt, "__index", L.NewFunction(clientIndex))
}

func newClient(L *lua.LState, h *Host, s *session.Session) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = clientHandle{h: h, s: s}
	L.SetMetatable(ud, L.GetTypeMetatable(clientTypeName))
	return ud
}

func checkClient(L *lua.LState, n int) clientHandle {
	v, ok := L.CheckUserData(n).Value.(clientHandle)
	if !ok {
		L.ArgError(n, "expected a client")
	}
	return v
}

func clientIndex(L *lua.LState) int {
	ch := checkClient(L, 1)
	switch L.CheckString(2) {
	case "id":
		L.Push(lua.LString(ch.s.ID().String()))
	case "set_camera_position":
		L.Push(L.NewFunction(clientSetCameraPosition))
	case "set_camera_entity":
		L.Push(L.NewFunction(clientSetCameraEntity))
	case "remove_camera":
		L.Push(L.NewFunction(clientRemoveCamera))
	case "is_key_down":
		L.Push(L.NewFunction(clientIsKeyDown))
	case "is_key_pressed":
		L.Push(L.NewFunction(clientIsKeyPressed))
	case "is_key_released":
		L.Push(L.NewFunction(clientIsKeyReleased))
	case "is_button_down":
		L.Push(L.NewFunction(clientIsButtonDown))
	case "is_button_pressed":
		L.Push(L.NewFunction(clientIsButtonPressed))
	case "is_button_released":
		L.Push(L.NewFunction(clientIsButtonReleased))
	case "mouse_position":
		m := ch.s.Input().MousePosition
		cam, ok := ch.s.CameraPosition()
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(newPosition(L, world.Position{X: m.X, Y: m.Y, World: cam.World}))
		return 1
	default:
		L.Push(lua.LNil)
	}
	return 1
}

func clientSetCameraPosition(L *lua.LState) int {
	ch := checkClient(L, 1)
	p := checkPosition(L, 2)
	ch.s.SetCamera(session.CameraAt(p))
	return 0
}

func clientSetCameraEntity(L *lua.LState) int {
	ch := checkClient(L, 1)
	eh := checkEntity(L, 2)
	ch.s.SetCamera(session.CameraFollowing(eh.e.ID()))
	return 0
}

func clientRemoveCamera(L *lua.LState) int {
	ch := checkClient(L, 1)
	ch.s.SetCamera(session.CameraNone())
	return 0
}

func clientIsKeyDown(L *lua.LState) int {
	ch := checkClient(L, 1)
	L.Push(lua.LBool(ch.s.Input().IsKeyDown(uint16(L.CheckNumber(2)))))
	return 1
}

func clientIsKeyPressed(L *lua.LState) int {
	ch := checkClient(L, 1)
	L.Push(lua.LBool(ch.s.Input().IsKeyPressed(uint16(L.CheckNumber(2)))))
	return 1
}

func clientIsKeyReleased(L *lua.LState) int {
	ch := checkClient(L, 1)
	L.Push(lua.LBool(ch.s.Input().IsKeyReleased(uint16(L.CheckNumber(2)))))
	return 1
}

func clientIsButtonDown(L *lua.LState) int {
	ch := checkClient(L, 1)
	L.Push(lua.LBool(ch.s.Input().IsButtonDown(session.MouseButton(L.CheckNumber(2)))))
	return 1
}

func clientIsButtonPressed(L *lua.LState) int {
	ch := checkClient(L, 1)
	L.Push(lua.LBool(ch.s.Input().IsButtonPressed(session.MouseButton(L.CheckNumber(2)))))
	return 1
}

func clientIsButtonReleased(L *lua.LState) int {
	ch := checkClient(L, 1)
	L.Push(lua.LBool(ch.s.Input().IsButtonReleased(session.MouseButton(L.CheckNumber(2)))))
	return 1
}
