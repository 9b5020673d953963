package world

import "testing"

func TestTileSetDuplicateIDIsConfigurationError(t *testing.T) {
	ts := NewTileSet(nil, 16)
	if err := ts.Register("grass", nil, 0, nil); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := ts.Register("grass", nil, 0, nil); err == nil {
		t.Fatalf("expected a configuration error for a duplicate tile id")
	}
}

func TestTileSetDefaultTileInjected(t *testing.T) {
	ts := NewTileSet(nil, 16)
	def, ok := ts.ByName("default")
	if !ok {
		t.Fatalf("expected an implicit default tile")
	}
	if def.NumID != 0 {
		t.Fatalf("default tile must have numeric id 0, got %d", def.NumID)
	}
	if ts.ByNumID(0) != def {
		t.Fatalf("ByNumID(0) must resolve to the default tile")
	}
}

// Scenario 4 from §8: overwriting a tile with per-tile data discards that
// data (I3).
func TestSetTileInvalidatesPerTileData(t *testing.T) {
	u := newTestUniverse(t)
	ts := NewTileSet(nil, 16)
	if err := ts.Register("grass", nil, 0, map[string]any{"id": "grass"}); err != nil {
		t.Fatalf("register grass: %v", err)
	}
	if err := ts.Register("stone", nil, 1, map[string]any{"id": "stone"}); err != nil {
		t.Fatalf("register stone: %v", err)
	}
	if err := u.Registry.RegisterTileSet("ground", ts); err != nil {
		t.Fatalf("register tileset: %v", err)
	}

	pos := Position{X: 3, Y: 3, World: "w"}
	if err := u.SetTileAt("ground", pos, "grass"); err != nil {
		t.Fatalf("set tile: %v", err)
	}
	data, err := u.TileDataAt("ground", pos)
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	data["touched"] = true

	if err := u.SetTileAt("ground", pos, "stone"); err != nil {
		t.Fatalf("overwrite tile: %v", err)
	}
	fresh, err := u.TileDataAt("ground", pos)
	if err != nil {
		t.Fatalf("get data after overwrite: %v", err)
	}
	if _, stale := fresh["touched"]; stale {
		t.Fatalf("expected a fresh data table after tile overwrite, got the stale one")
	}
}
