// Package session implements per-client connection state: input buffering,
// the camera, and the replication hookup that keeps a client's interest
// window current as its camera moves (§4.5, §4.6).
package session

import "github.com/hydro-mc/hydro/server/geom"

// MouseButton is a wire mouse button code (§6: 0=Left, 1=Right, 2=Middle).
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// PlayerInputFrame is one decoded MessageC2S PlayerInput frame, as received
// from the transport.
type PlayerInputFrame struct {
	KeysDown        map[uint16]struct{}
	KeysPressed     map[uint16]struct{}
	KeysReleased    map[uint16]struct{}
	ButtonsDown     map[MouseButton]struct{}
	ButtonsPressed  map[MouseButton]struct{}
	ButtonsReleased map[MouseButton]struct{}
	MousePosition   geom.Vec2
}

// Input is the per-tick input snapshot a session exposes to script queries.
// keys/buttons "down" and the mouse position are overwritten by the latest
// frame received this tick; "pressed"/"released" are unioned across every
// frame received since the last tick so that edge events are never lost
// when multiple frames arrive between ticks (§4.6, scenario 6).
type Input struct {
	KeysDown        map[uint16]struct{}
	KeysPressed     map[uint16]struct{}
	KeysReleased    map[uint16]struct{}
	ButtonsDown     map[MouseButton]struct{}
	ButtonsPressed  map[MouseButton]struct{}
	ButtonsReleased map[MouseButton]struct{}
	MousePosition   geom.Vec2
}

func newInput() Input {
	return Input{
		KeysDown:        map[uint16]struct{}{},
		KeysPressed:     map[uint16]struct{}{},
		KeysReleased:    map[uint16]struct{}{},
		ButtonsDown:     map[MouseButton]struct{}{},
		ButtonsPressed:  map[MouseButton]struct{}{},
		ButtonsReleased: map[MouseButton]struct{}{},
	}
}

func (in *Input) apply(frame PlayerInputFrame) {
	in.KeysDown = frame.KeysDown
	in.ButtonsDown = frame.ButtonsDown
	in.MousePosition = frame.MousePosition
	for k := range frame.KeysPressed {
		in.KeysPressed[k] = struct{}{}
	}
	for k := range frame.KeysReleased {
		in.KeysReleased[k] = struct{}{}
	}
	for b := range frame.ButtonsPressed {
		in.ButtonsPressed[b] = struct{}{}
	}
	for b := range frame.ButtonsReleased {
		in.ButtonsReleased[b] = struct{}{}
	}
}

// IsKeyDown reports whether key is currently held.
func (in Input) IsKeyDown(key uint16) bool { _, ok := in.KeysDown[key]; return ok }

// IsKeyPressed reports whether key transitioned to down since the last tick.
func (in Input) IsKeyPressed(key uint16) bool { _, ok := in.KeysPressed[key]; return ok }

// IsKeyReleased reports whether key transitioned to up since the last tick.
func (in Input) IsKeyReleased(key uint16) bool { _, ok := in.KeysReleased[key]; return ok }

// IsButtonDown reports whether button is currently held.
func (in Input) IsButtonDown(b MouseButton) bool { _, ok := in.ButtonsDown[b]; return ok }

// IsButtonPressed reports whether button transitioned to down since the
// last tick.
func (in Input) IsButtonPressed(b MouseButton) bool { _, ok := in.ButtonsPressed[b]; return ok }

// IsButtonReleased reports whether button transitioned to up since the
// last tick.
func (in Input) IsButtonReleased(b MouseButton) bool { _, ok := in.ButtonsReleased[b]; return ok }
