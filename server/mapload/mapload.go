// Package mapload implements the script-facing load_map_into_world
// operation (§4.8): it reads a Tiled TMX map file and populates a world's
// tile layers and spawns its objects. The TMX format itself is an external
// collaborator per spec.md §1/§6 — this package is the thin adapter that
// consumes github.com/adm87/tiled and turns its decoded map into the core
// operations (world.SetTileAt, world.Spawn) the rest of the server already
// exposes; it never reaches into Chunk/Tile internals directly.
package mapload

import (
	"fmt"

	"github.com/adm87/tiled"

	"github.com/hydro-mc/hydro/server/world"
)

// LayerMapping names, for each named Tiled tile layer the caller wants
// imported, which registered TileSetID its gids should be written into.
type LayerMapping map[string]world.TileSetID

// Into decodes the TMX file at path and writes its tile layers into uni's
// world worldID, using mapping to resolve each Tiled layer name to a
// registered tileset, and spawns an entity for every object found on an
// object layer whose type names a registered EntityTypeID. Tile ids in the
// TMX file are resolved to this server's TileID set by numeric position: a
// TMX gid's local tile index (after tiled.DecodeGID strips the flip bits
// and tiled.TilesetByGID resolves which Tiled tileset it belongs to) must
// match the dense registration order used when the tileset was registered
// via register_tileset, which is the same convention original_source's map
// importer relies on.
func Into(uni *world.Universe, path string, worldID world.ID, mapping LayerMapping) error {
	tmx, err := tiled.DecodeFile(path)
	if err != nil {
		return fmt.Errorf("%w: load map %q: %v", world.ErrScript, path, err)
	}

	for i := range tmx.Layers {
		layer := &tmx.Layers[i]
		tilesetID, ok := mapping[layer.Name()]
		if !ok {
			continue
		}
		if err := importTileLayer(uni, worldID, tilesetID, tmx, layer); err != nil {
			return err
		}
	}
	for i := range tmx.Layers {
		layer := &tmx.Layers[i]
		if _, isTileLayer := mapping[layer.Name()]; isTileLayer {
			continue
		}
		spawnObjectLayer(uni, worldID, layer)
	}
	return nil
}

func importTileLayer(uni *world.Universe, worldID world.ID, tilesetID world.TileSetID, tmx *tiled.Tmx, layer *tiled.Layer) error {
	ts, ok := uni.Registry.TileSet(tilesetID)
	if !ok {
		return fmt.Errorf("%w: load map: tileset %q is not registered", world.ErrScript, tilesetID)
	}

	width, height := layer.Width, layer.Height
	content := layer.Data.Content
	gids, err := tiled.DecodeContent(content, tiled.EncodingCSV, tiled.CompressionNone)
	if err != nil {
		return fmt.Errorf("%w: load map: decode layer %q: %v", world.ErrScript, layer.Name(), err)
	}

	for i, gid := range gids {
		localID, _ := tiled.DecodeGID(gid)
		if localID == 0 {
			continue
		}
		_, tileID, tsIdx := tiled.TilesetByGID(tmx, localID)
		if tsIdx == -1 {
			continue
		}
		if int(tileID) >= len(ts.IDs()) {
			continue
		}
		name := ts.IDs()[tileID]

		x := int32(i) % width
		y := int32(i) / width
		pos := world.Position{X: float64(x), Y: float64(y), World: worldID}
		if err := uni.SetTileAt(tilesetID, pos, name); err != nil {
			return err
		}
	}
	return nil
}

// spawnObjectLayer spawns one entity per Tiled object whose Type names a
// registered entity type. Objects with no Type are skipped silently; an
// object whose Type is not a registered entity type fails to spawn, which
// fires a "load_map_spawn_error" event with the error and does not stop
// the load: object layers in a hand-authored map commonly mix markers,
// trigger volumes and actual spawn points, and only the latter are this
// server's concern.
func spawnObjectLayer(uni *world.Universe, worldID world.ID, layer *tiled.Layer) {
	for _, obj := range layer.Objects {
		if obj.Type == "" {
			continue
		}
		pos := world.Position{X: obj.X, Y: obj.Y, World: worldID}
		if _, err := uni.Spawn(world.EntityTypeID(obj.Type), pos); err != nil {
			uni.Events().Fire("load_map_spawn_error", err)
		}
	}
}
