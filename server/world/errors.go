package world

import "errors"

// ErrConfiguration marks a fatal init-time error: bad registration, a
// duplicate tile id, a missing asset. The caller aborts startup.
var ErrConfiguration = errors.New("world: configuration error")

// ErrScript marks a script-runtime error: invalid arguments, a malformed
// id, an unknown animation, a cross-world operation, or use of a
// server-scoped operation outside a running server. The offending call
// fails and is reported to the operator; the tick proceeds.
var ErrScript = errors.New("world: script error")
