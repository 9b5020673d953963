package world

import "github.com/hydro-mc/hydro/server/geom"

// The *Msg types below are the in-memory representation of the §6 wire
// schema's server-to-client variants. They carry no framing or encoding
// concerns of their own; package transport turns them into bytes. Keeping
// them here, rather than in transport, lets world and session build
// messages directly out of authoritative state without an import cycle.

// RunningAnimation names the animation currently playing and how long it
// has been running, in seconds.
type RunningAnimation struct {
	ID   AnimationID
	Time float64
}

// EntityAdd describes an entity as observed the moment it becomes visible
// to a viewer.
type EntityAdd struct {
	ID         EntityID
	EntityType EntityTypeID
	Position   geom.Vec2
	Animation  RunningAnimation
}

// LoadChunkMsg (S2C discriminator 0) delivers a chunk's full current state:
// every tile layer and every resident entity.
type LoadChunkMsg struct {
	Coord    ChunkCoord
	Layers   map[TileSetID][ChunkSize * ChunkSize]uint32
	Entities []EntityAdd
}

// UnloadChunkMsg (S2C discriminator 1) tells a client to discard a chunk
// and every entity id it held for it.
type UnloadChunkMsg struct {
	Coord     ChunkCoord
	EntityIDs []EntityID
}

// SetTileMsg (S2C discriminator 2) overwrites a single tile.
type SetTileMsg struct {
	Tile    geom.TileCoord
	TileSet TileSetID
	TileID  uint32
}

// AddEntityMsg (S2C discriminator 3).
type AddEntityMsg struct{ Entity EntityAdd }

// RemoveEntityMsg (S2C discriminator 4).
type RemoveEntityMsg struct{ ID EntityID }

// UpdateEntityPositionMsg (S2C discriminator 5).
type UpdateEntityPositionMsg struct {
	ID  EntityID
	Pos geom.Vec2
}

// UpdateEntityAnimationMsg (S2C discriminator 6).
type UpdateEntityAnimationMsg struct {
	ID        EntityID
	Animation RunningAnimation
}

// TileSetContent (part of S2C discriminator 7) describes one tileset's
// asset and per-tile asset coordinates for the content bundle.
type TileSetContent struct {
	Asset []byte
	Size  uint8
	Tiles []*AssetCoord
}

// EntityContent (part of S2C discriminator 7) describes one entity type's
// animations and size for the content bundle.
type EntityContent struct {
	Animations map[AnimationID]AnimationData
	W, H       float64
}

// LoadContentMsg (S2C discriminator 7) is sent once to every newly
// accepted connection, before any chunk traffic.
type LoadContentMsg struct {
	Name     string
	Tilesets map[TileSetID]TileSetContent
	Entities map[EntityTypeID]EntityContent
}

// CameraInfoMsg (S2C discriminator 8) reports the resolved world position
// of a session's camera.
type CameraInfoMsg struct{ Pos geom.Vec2 }

// ContentBundle renders the registry into the wire content message sent to
// every newly joined client.
func (r *Registry) ContentBundle(name string) LoadContentMsg {
	msg := LoadContentMsg{
		Name:     name,
		Tilesets: make(map[TileSetID]TileSetContent, len(r.tilesets)),
		Entities: make(map[EntityTypeID]EntityContent, len(r.entities)),
	}
	for _, bucket := range r.tilesets {
		for _, e := range bucket {
			ts := e.ts
			tiles := make([]*AssetCoord, len(ts.ids))
			for i, tid := range ts.ids {
				tiles[i] = ts.byID[tid].Asset
			}
			msg.Tilesets[e.id] = TileSetContent{Asset: ts.Asset, Size: ts.TileSize, Tiles: tiles}
		}
	}
	for _, bucket := range r.entities {
		for _, e := range bucket {
			msg.Entities[e.id] = EntityContent{Animations: e.et.Animations, W: e.et.W, H: e.et.H}
		}
	}
	return msg
}
