package world

import (
	"fmt"

	"github.com/hydro-mc/hydro/server/geom"
)

// TileAtPos returns the tile type at pos for the given tileset. The chunk
// is created if absent, like any chunk access; the layer is not (a missing
// layer reads as all-default).
func (u *Universe) TileAtPos(tileset TileSetID, pos Position) (*TileType, error) {
	ts, ok := u.Registry.TileSet(tileset)
	if !ok {
		return nil, fmt.Errorf("%w: tileset %q does not exist", ErrScript, tileset)
	}
	coord, offset := ToChunk(TileAt(pos.Vec2()))
	chunk := u.World(pos.World).Chunk(coord)
	if l, ok := chunk.layers[tileset]; ok {
		return ts.ByNumID(l.At(offset)), nil
	}
	return ts.ByNumID(0), nil
}

// SetTileAt overwrites the tile at pos in the given tileset's layer,
// invalidating any per-tile data table at that offset (I3), and notifies
// every current viewer of the chunk with SetTile.
func (u *Universe) SetTileAt(tileset TileSetID, pos Position, tileID TileID) error {
	ts, ok := u.Registry.TileSet(tileset)
	if !ok {
		return fmt.Errorf("%w: tileset %q does not exist", ErrScript, tileset)
	}
	tt, ok := ts.ByName(tileID)
	if !ok {
		return fmt.Errorf("%w: tileset %q has no tile %q", ErrScript, tileset, tileID)
	}
	tile := TileAt(pos.Vec2())
	coord, offset := ToChunk(tile)
	chunk := u.World(pos.World).Chunk(coord)
	layer := chunk.Layer(tileset)
	layer.Set(offset, tt.NumID)
	chunk.broadcast(SetTileMsg{Tile: tile, TileSet: tileset, TileID: tt.NumID})
	return nil
}

// TileDataAt returns the per-tile script data table at pos for the given
// tileset, creating it (prototyped from the current tile type's default
// data) if it does not yet exist.
func (u *Universe) TileDataAt(tileset TileSetID, pos Position) (map[string]any, error) {
	ts, ok := u.Registry.TileSet(tileset)
	if !ok {
		return nil, fmt.Errorf("%w: tileset %q does not exist", ErrScript, tileset)
	}
	coord, offset := ToChunk(TileAt(pos.Vec2()))
	chunk := u.World(pos.World).Chunk(coord)
	layer := chunk.Layer(tileset)
	tt := ts.ByNumID(layer.At(offset))
	return layer.DataAt(offset, func() map[string]any { return cloneData(tt.Data) }), nil
}

// tilesAtAABB returns, for every tile overlapping the given AABB in the
// given world, the collision mask of that tile in each tile layer present
// at that offset (one entry per tile per layer; chunks that do not exist
// yet contribute nothing).
func (u *Universe) tilesAtAABB(world ID, box geom.AABB) []uint32 {
	w := u.World(world)
	tiles := geom.TilesOverlapping(box)
	masks := make([]uint32, 0, len(tiles))
	for _, t := range tiles {
		coord, offset := ToChunk(t)
		chunk, ok := w.PeekChunk(coord)
		if !ok {
			continue
		}
		for tilesetID, layer := range chunk.layers {
			ts, ok := u.Registry.TileSet(tilesetID)
			if !ok {
				continue
			}
			masks = append(masks, ts.ByNumID(layer.At(offset)).Mask)
		}
	}
	return masks
}
