package script

// Key codes exposed to scripts through the `keys` global table, matching
// the X11 keysym values PlayerInput frames carry over the wire (§6).
const (
	Key0 uint16 = 0x30
	Key1 uint16 = 0x31
	Key2 uint16 = 0x32
	Key3 uint16 = 0x33
	Key4 uint16 = 0x34
	Key5 uint16 = 0x35
	Key6 uint16 = 0x36
	Key7 uint16 = 0x37
	Key8 uint16 = 0x38
	Key9 uint16 = 0x39

	KeyA uint16 = 0x41
	KeyB uint16 = 0x42
	KeyC uint16 = 0x43
	KeyD uint16 = 0x44
	KeyE uint16 = 0x45
	KeyF uint16 = 0x46
	KeyG uint16 = 0x47
	KeyH uint16 = 0x48
	KeyI uint16 = 0x49
	KeyJ uint16 = 0x4a
	KeyK uint16 = 0x4b
	KeyL uint16 = 0x4c
	KeyM uint16 = 0x4d
	KeyN uint16 = 0x4e
	KeyO uint16 = 0x4f
	KeyP uint16 = 0x50
	KeyQ uint16 = 0x51
	KeyR uint16 = 0x52
	KeyS uint16 = 0x53
	KeyT uint16 = 0x54
	KeyU uint16 = 0x55
	KeyV uint16 = 0x56
	KeyW uint16 = 0x57
	KeyX uint16 = 0x58
	KeyY uint16 = 0x59
	KeyZ uint16 = 0x5a

	KeyRight  uint16 = 0xff53
	KeyLeft   uint16 = 0xff51
	KeyDown   uint16 = 0xff54
	KeyUp     uint16 = 0xff52
	KeyLShift uint16 = 0xffe1
	KeyRShift uint16 = 0xffe2
)

var keyTable = map[string]uint16{
	"0": Key0, "1": Key1, "2": Key2, "3": Key3, "4": Key4,
	"5": Key5, "6": Key6, "7": Key7, "8": Key8, "9": Key9,
	"a": KeyA, "b": KeyB, "c": KeyC, "d": KeyD, "e": KeyE,
	"f": KeyF, "g": KeyG, "h": KeyH, "i": KeyI, "j": KeyJ,
	"k": KeyK, "l": KeyL, "m": KeyM, "n": KeyN, "o": KeyO,
	"p": KeyP, "q": KeyQ, "r": KeyR, "s": KeyS, "t": KeyT,
	"u": KeyU, "v": KeyV, "w": KeyW, "x": KeyX, "y": KeyY,
	"z": KeyZ,
	"right": KeyRight, "left": KeyLeft, "down": KeyDown, "up": KeyUp,
	"lshift": KeyLShift, "rshift": KeyRShift,
}
