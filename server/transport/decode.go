package transport

import (
	"fmt"

	"github.com/hydro-mc/hydro/server/geom"
	"github.com/hydro-mc/hydro/server/session"
)

// decodeC2S parses one client-to-server message per §6's tagged union. A
// truncated or malformed payload is a decode error (§7): non-fatal to the
// server, but terminal for the client's inbound stream.
func decodeC2S(b []byte) (session.PlayerInputFrame, error) {
	r := newReader(b)
	tag, err := r.byte()
	if err != nil {
		return session.PlayerInputFrame{}, err
	}
	if tag != 0 {
		return session.PlayerInputFrame{}, fmt.Errorf("transport: unknown C2S discriminator %d", tag)
	}

	var f session.PlayerInputFrame
	if f.KeysDown, err = r.uint16Set(); err != nil {
		return f, err
	}
	if f.KeysPressed, err = r.uint16Set(); err != nil {
		return f, err
	}
	if f.KeysReleased, err = r.uint16Set(); err != nil {
		return f, err
	}
	buttonsDown, err := r.byteSet()
	if err != nil {
		return f, err
	}
	f.ButtonsDown = toButtonSet(buttonsDown)
	buttonsPressed, err := r.byteSet()
	if err != nil {
		return f, err
	}
	f.ButtonsPressed = toButtonSet(buttonsPressed)
	buttonsReleased, err := r.byteSet()
	if err != nil {
		return f, err
	}
	f.ButtonsReleased = toButtonSet(buttonsReleased)

	x, err := r.float32()
	if err != nil {
		return f, err
	}
	y, err := r.float32()
	if err != nil {
		return f, err
	}
	f.MousePosition = geom.Vec2{X: float64(x), Y: float64(y)}
	return f, nil
}

func toButtonSet(raw map[byte]struct{}) map[session.MouseButton]struct{} {
	out := make(map[session.MouseButton]struct{}, len(raw))
	for b := range raw {
		out[session.MouseButton(b)] = struct{}{}
	}
	return out
}
