package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/session"
	"github.com/hydro-mc/hydro/server/world"
)

// payloadToLua converts a Go event payload fired on the Universe's EventBus
// into the argument list a Lua handler registered via register_event
// receives. Event names not listed here (and nil payloads, like "tick")
// call handlers with no arguments. "join"/"leave" fire the connecting
// session itself, so the canonical handler shape
// (`function on_join(client) client:set_camera_entity(...) end`) gets a
// usable client handle rather than a bare id.
func (h *Host) payloadToLua(payload any) []lua.LValue {
	switch v := payload.(type) {
	case *session.Session:
		return []lua.LValue{newClient(h.L, h, v)}
	case world.Position:
		return []lua.LValue{newPosition(h.L, v)}
	case world.EntityID:
		return []lua.LValue{lua.LString(v.String())}
	case error:
		return []lua.LValue{lua.LString(v.Error())}
	default:
		return nil
	}
}
