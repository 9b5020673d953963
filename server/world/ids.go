// Package world implements the chunked spatial model: worlds, chunks, tile
// layers, entity residency and the task scheduler that drives the tick
// loop. It is the authoritative store of simulation state; sessions and the
// script API surface observe and mutate it through the operations defined
// here.
package world

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hydro-mc/hydro/server/geom"
)

// ChunkSize is the number of tiles along one edge of a square chunk.
const ChunkSize = 32

// ID is an interned world identifier. The empty ID denotes "no world" (used
// when a session has no camera).
type ID string

// EntityID identifies an entity for its lifetime. It is a random 128-bit
// value, never reused.
type EntityID uuid.UUID

// NewEntityID allocates a fresh random entity identifier.
func NewEntityID() EntityID { return EntityID(uuid.New()) }

// String renders the id in canonical UUID form.
func (id EntityID) String() string { return uuid.UUID(id).String() }

// ParseEntityID parses a canonical UUID string into an EntityID.
func ParseEntityID(s string) (EntityID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return EntityID{}, fmt.Errorf("%w: malformed entity id %q: %v", ErrScript, s, err)
	}
	return EntityID(u), nil
}

// ChunkCoord addresses a chunk within a World.
type ChunkCoord struct {
	X, Y int16
}

// ChunkOffset addresses a single tile within a chunk, in [0, ChunkSize).
type ChunkOffset struct {
	X, Y uint8
}

// Index returns the offset's position in a chunk's dense tile array.
func (o ChunkOffset) Index() int { return int(o.X) + ChunkSize*int(o.Y) }

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ToChunk splits a TileCoord into the ChunkCoord that contains it and the
// ChunkOffset within that chunk.
func ToChunk(t geom.TileCoord) (ChunkCoord, ChunkOffset) {
	cx := floorDiv(t.X, ChunkSize)
	cy := floorDiv(t.Y, ChunkSize)
	ox := t.X - cx*ChunkSize
	oy := t.Y - cy*ChunkSize
	return ChunkCoord{X: int16(cx), Y: int16(cy)}, ChunkOffset{X: uint8(ox), Y: uint8(oy)}
}

// TileAt floors a world position to the TileCoord it falls within.
func TileAt(pos geom.Vec2) geom.TileCoord {
	return geom.TileCoord{X: int32(floorInt(pos.X)), Y: int32(floorInt(pos.Y))}
}

func floorInt(v float64) int64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

// ChunkCoordOf returns the chunk containing the given world position.
func ChunkCoordOf(pos geom.Vec2) ChunkCoord {
	c, _ := ToChunk(TileAt(pos))
	return c
}

// Position is an entity or camera position: a point in a specific World.
type Position struct {
	X, Y  float64
	World ID
}

func (p Position) Vec2() geom.Vec2 { return geom.Vec2{X: p.X, Y: p.Y} }
