// Package script embeds a Lua runtime (gopher-lua) as the scripting host
// described in the spec's script API surface: scripts construct positions
// and tilesets, spawn and query entities, read tile data, run collision
// queries, and drive client cameras, all through the functions and
// userdata types registered here.
package script

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/internal/txguard"
	"github.com/hydro-mc/hydro/server/session"
	"github.com/hydro-mc/hydro/server/world"
)

// ClientSource is the subset of the session registry the script host needs
// in order to resolve get_clients() and entity/camera lookups without
// importing the concrete registry type from server.go.
type ClientSource interface {
	Clients() map[world.ClientID]*session.Session
}

// Host owns the Lua state and every Go value bridged into it. One Host is
// created per running server and lives for the server's whole lifetime;
// scripts never get a second Lua state.
type Host struct {
	L        *lua.LState
	uni      *world.Universe
	clients  ClientSource
	log      *slog.Logger
	assetDir string
	handlers map[string][]*lua.LFunction
}

// New creates a Lua state, registers every global function and userdata
// type described by the script API, and returns the Host ready to load
// script files into. assetDir is where register_tileset/register_entity
// resolve their {file=...} image references from (defaulting to
// "assets" when empty, matching the original asset layout convention).
func New(uni *world.Universe, clients ClientSource, log *slog.Logger, assetDir string) *Host {
	if log == nil {
		log = slog.Default()
	}
	if assetDir == "" {
		assetDir = "assets"
	}
	h := &Host{L: lua.NewState(), uni: uni, clients: clients, log: log, assetDir: assetDir, handlers: map[string][]*lua.LFunction{}}
	h.registerTypes()
	h.registerGlobals()
	return h
}

// readAsset loads a PNG image referenced by name ("foo" -> "<assetDir>/foo.png").
func (h *Host) readAsset(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(h.assetDir, name+".png"))
}

func (h *Host) registerTypes() {
	registerPositionType(h.L)
	h.registerAABBType()
	h.registerEntityType()
	h.registerTileSetHandleType()
	h.registerDataTableType()
	h.registerClientType()
}

// Close releases the Lua state.
func (h *Host) Close() { h.L.Close() }

// DoFile loads and runs a script file, returning any load or top-level
// runtime error as a script error (ErrScript-wrapped, per the configuration
// vs. script-runtime error taxonomy: a script failing to load is fatal at
// startup, but the distinction is made by the caller, not here).
func (h *Host) DoFile(path string) error {
	if err := h.L.DoFile(path); err != nil {
		return fmt.Errorf("%w: %v", world.ErrScript, err)
	}
	return nil
}

// Fire invokes every event handler registered under name by scripts via
// register_event, passing args to each in registration order (EventBus
// payloads are converted to args by payloadToLua before they get here).
// Handlers run guarded: a panic inside the Lua VM is recovered and logged
// rather than crashing the tick loop.
func (h *Host) Fire(name string, args ...lua.LValue) {
	fns, ok := h.handlers[name]
	if !ok {
		return
	}
	for _, fn := range fns {
		h.call(fn, args...)
	}
}

func (h *Host) call(fn *lua.LFunction, args ...lua.LValue) {
	if err := txguard.Run(func() {
		h.L.Push(fn)
		for _, a := range args {
			h.L.Push(a)
		}
		if err := h.L.PCall(len(args), 0, nil); err != nil {
			h.log.Error("script callback failed", "error", err)
		}
	}); err != nil {
		h.log.Error("script callback panicked", "error", err)
	}
}
