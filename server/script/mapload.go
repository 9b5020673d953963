package script

import (
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/hydro-mc/hydro/server/mapload"
	"github.com/hydro-mc/hydro/server/world"
)

// luaLoadMapIntoWorld implements load_map_into_world(path, world_id,
// {layer_name = tileset_id, ...}) (§4.8): path is resolved relative to the
// host's asset directory, matching register_tileset/register_entity's
// "{file=...}" asset convention.
func (h *Host) luaLoadMapIntoWorld(L *lua.LState) int {
	path := L.CheckString(1)
	worldID := world.ID(L.CheckString(2))
	tbl := L.CheckTable(3)

	mapping := mapload.LayerMapping{}
	tbl.ForEach(func(k, v lua.LValue) {
		mapping[k.String()] = world.TileSetID(lua.LVAsString(v))
	})

	if !filepath.IsAbs(path) {
		path = filepath.Join(h.assetDir, path)
	}
	if err := mapload.Into(h.uni, path, worldID, mapping); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}
