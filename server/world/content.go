package world

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/hydro-mc/hydro/server/geom"
)

// normalizeName applies NFC normalization to a script-supplied id before
// it's interned, so two scripts spelling the same name with different
// Unicode normalization forms (e.g. a precomposed vs. combining-mark
// accented character) collide predictably instead of silently registering
// two distinct entries.
func normalizeName(s string) string { return norm.NFC.String(s) }

// TileID names a tile type within a TileSet.
type TileID string

// AssetCoord is an optional (column, row) position into a tileset's sprite
// sheet.
type AssetCoord struct {
	X, Y uint8
}

// TileType is an immutable tile definition within a TileSet.
type TileType struct {
	// NumID is the dense index of this tile within its TileSet, used as the
	// wire and in-memory representation in a chunk's tile array.
	NumID uint32
	Asset *AssetCoord
	// Mask is the 32-bit collision layer bitmap; two colliders interact iff
	// a.Mask & b.Mask != 0.
	Mask uint32
	// Data is the opaque per-tile-type script data table. A per-tile
	// instance table (ChunkTileLayer's sparse map) starts as a shallow copy
	// of it when first requested.
	Data map[string]any
}

// TileSet is an immutable-after-init collection of tile types, addressed
// both by name and by dense numeric id (the latter is what a chunk's tile
// array actually stores).
type TileSet struct {
	ids     []TileID
	byID    map[TileID]*TileType
	Asset   []byte
	TileSize uint8
}

// NewTileSet returns an empty TileSet for the given sprite sheet asset. A
// "default" tile (numeric id 0) is injected automatically per I4; callers
// may still register an explicit "default" entry to override its mask/data.
func NewTileSet(asset []byte, tileSize uint8) *TileSet {
	ts := &TileSet{byID: map[TileID]*TileType{}, Asset: asset, TileSize: tileSize}
	ts.register(TileID("default"), nil, 0, map[string]any{"id": "default"})
	return ts
}

// Register adds a named tile type to the set. Registering a duplicate
// TileID is a configuration error (§4.3); re-registering "default" replaces
// the auto-injected entry in place, preserving its numeric id 0.
func (ts *TileSet) Register(id TileID, asset *AssetCoord, mask uint32, data map[string]any) error {
	id = TileID(normalizeName(string(id)))
	if id == "default" {
		t := ts.byID[id]
		t.Asset, t.Mask, t.Data = asset, mask, data
		return nil
	}
	if _, ok := ts.byID[id]; ok {
		return fmt.Errorf("%w: duplicate tile id %q", ErrConfiguration, id)
	}
	ts.register(id, asset, mask, data)
	return nil
}

func (ts *TileSet) register(id TileID, asset *AssetCoord, mask uint32, data map[string]any) {
	t := &TileType{NumID: uint32(len(ts.ids)), Asset: asset, Mask: mask, Data: data}
	ts.ids = append(ts.ids, id)
	ts.byID[id] = t
}

// IDs returns the tileset's tile names in dense numeric-id order, so
// callers that resolve a numeric id coming off the wire or a TMX file can
// map it back to a registered TileID.
func (ts *TileSet) IDs() []TileID { return ts.ids }

// ByName looks up a tile type by its registered name.
func (ts *TileSet) ByName(id TileID) (*TileType, bool) {
	t, ok := ts.byID[TileID(normalizeName(string(id)))]
	return t, ok
}

// ByNumID looks up a tile type by its dense numeric id, as stored in a
// chunk's tile array. Out-of-range ids resolve to the default tile.
func (ts *TileSet) ByNumID(id uint32) *TileType {
	if int(id) >= len(ts.ids) {
		return ts.byID["default"]
	}
	return ts.byID[ts.ids[id]]
}

// TileSetID is an interned tileset name.
type TileSetID string

// EntityTypeID is an interned entity type name.
type EntityTypeID string

// AnimationID is an interned animation name.
type AnimationID string

// Collider is a named hitbox relative to an entity's position.
type Collider struct {
	AABB geom.AABB
	Mask uint32
}

// AnimationData is an immutable animation definition.
type AnimationData struct {
	Image  []byte
	Count  uint16
	Period float64
	Looped bool
	Flip   bool
}

// EntityType is an immutable-after-init entity definition.
type EntityType struct {
	Colliders  map[string]Collider
	Animations map[AnimationID]AnimationData
	W, H       float64
	// DefaultData is the prototype every spawned entity's data table
	// starts life as a shallow copy of.
	DefaultData map[string]any
}

// tilesetEntry pairs a registered tileset with its normalized name, so a
// hash-bucket collision can still be resolved by direct comparison.
type tilesetEntry struct {
	id TileSetID
	ts *TileSet
}

// entityEntry is tilesetEntry's counterpart for registered entity types.
type entityEntry struct {
	id EntityTypeID
	et *EntityType
}

// Registry is the immutable, init-time-populated set of tilesets and entity
// types shared by reference across the running server. It is never mutated
// after init completes. Both tables are indexed by internKey's xxhash of
// the normalized name rather than the name itself, with same-bucket
// entries disambiguated by an exact id comparison — the registry's own
// fast-lookup index, as opposed to TileSet's dense numeric-id array used
// for the hot per-tile lookup.
type Registry struct {
	tilesets map[uint64][]tilesetEntry
	entities map[uint64][]entityEntry
}

// NewRegistry returns an empty content registry.
func NewRegistry() *Registry {
	return &Registry{tilesets: map[uint64][]tilesetEntry{}, entities: map[uint64][]entityEntry{}}
}

// RegisterTileSet adds a tileset under the given name. Registering the same
// name twice is a configuration error.
func (r *Registry) RegisterTileSet(id TileSetID, ts *TileSet) error {
	id = TileSetID(normalizeName(string(id)))
	key := internKey(string(id))
	for _, e := range r.tilesets[key] {
		if e.id == id {
			return fmt.Errorf("%w: duplicate tileset id %q", ErrConfiguration, id)
		}
	}
	r.tilesets[key] = append(r.tilesets[key], tilesetEntry{id: id, ts: ts})
	return nil
}

// TileSet returns the registered tileset, if any.
func (r *Registry) TileSet(id TileSetID) (*TileSet, bool) {
	id = TileSetID(normalizeName(string(id)))
	for _, e := range r.tilesets[internKey(string(id))] {
		if e.id == id {
			return e.ts, true
		}
	}
	return nil, false
}

// RegisterEntityType adds an entity type under the given name. Registering
// the same name twice is a configuration error.
func (r *Registry) RegisterEntityType(id EntityTypeID, et *EntityType) error {
	id = EntityTypeID(normalizeName(string(id)))
	key := internKey(string(id))
	for _, e := range r.entities[key] {
		if e.id == id {
			return fmt.Errorf("%w: duplicate entity type id %q", ErrConfiguration, id)
		}
	}
	r.entities[key] = append(r.entities[key], entityEntry{id: id, et: et})
	return nil
}

// EntityType returns the registered entity type, if any.
func (r *Registry) EntityType(id EntityTypeID) (*EntityType, bool) {
	id = EntityTypeID(normalizeName(string(id)))
	for _, e := range r.entities[internKey(string(id))] {
		if e.id == id {
			return e.et, true
		}
	}
	return nil, false
}

// internKey hashes a normalized registration name for the registry's
// hash-bucketed lookup tables above.
func internKey(s string) uint64 {
	return xxhash.Sum64String(s)
}
