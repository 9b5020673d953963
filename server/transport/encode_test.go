package transport

import (
	"testing"

	"github.com/hydro-mc/hydro/server/geom"
	"github.com/hydro-mc/hydro/server/world"
)

func TestEncodeS2CDiscriminators(t *testing.T) {
	cases := []struct {
		name string
		msg  any
		tag  byte
	}{
		{"LoadChunk", world.LoadChunkMsg{Coord: world.ChunkCoord{X: 1, Y: -1}}, 0},
		{"UnloadChunk", world.UnloadChunkMsg{Coord: world.ChunkCoord{X: 1, Y: -1}}, 1},
		{"SetTile", world.SetTileMsg{TileSet: "ground"}, 2},
		{"AddEntity", world.AddEntityMsg{}, 3},
		{"RemoveEntity", world.RemoveEntityMsg{}, 4},
		{"UpdateEntityPosition", world.UpdateEntityPositionMsg{}, 5},
		{"UpdateEntityAnimation", world.UpdateEntityAnimationMsg{}, 6},
		{"LoadContent", world.LoadContentMsg{Name: "hydro"}, 7},
		{"CameraInfo", world.CameraInfoMsg{Pos: geom.Vec2{X: 1, Y: 2}}, 8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, err := encodeS2C(c.msg)
			if err != nil {
				t.Fatalf("encodeS2C: %v", err)
			}
			if len(raw) == 0 || raw[0] != c.tag {
				t.Fatalf("expected discriminator %d, got %v", c.tag, raw)
			}
		})
	}
}

func TestEncodeLoadContentWidePayload(t *testing.T) {
	msg := world.LoadContentMsg{
		Name: "hydro",
		Entities: map[world.EntityTypeID]world.EntityContent{
			"player": {
				Animations: map[world.AnimationID]world.AnimationData{
					"idle": {Image: []byte{0xAB}, Count: 1, Period: 0.5, Looped: true, Flip: false},
				},
				W: 1.5,
				H: 2.5,
			},
		},
	}
	raw, err := encodeS2C(msg)
	if err != nil {
		t.Fatalf("encodeS2C: %v", err)
	}

	r := newReader(raw)
	tag, err := r.byte()
	if err != nil || tag != 7 {
		t.Fatalf("expected LoadContent discriminator 7, got %d (err=%v)", tag, err)
	}
	if name, err := r.string(); err != nil || name != "hydro" {
		t.Fatalf("expected name %q, got %q (err=%v)", "hydro", name, err)
	}
	if n, err := r.uvarint(); err != nil || n != 0 {
		t.Fatalf("expected zero tilesets, got %d (err=%v)", n, err)
	}
	if n, err := r.uvarint(); err != nil || n != 1 {
		t.Fatalf("expected one entity type, got %d (err=%v)", n, err)
	}
	if id, err := r.string(); err != nil || id != "player" {
		t.Fatalf("expected entity type %q, got %q (err=%v)", "player", id, err)
	}
	if n, err := r.uvarint(); err != nil || n != 1 {
		t.Fatalf("expected one animation, got %d (err=%v)", n, err)
	}
	if id, err := r.string(); err != nil || id != "idle" {
		t.Fatalf("expected animation %q, got %q (err=%v)", "idle", id, err)
	}
	img, err := r.bytes()
	if err != nil || len(img) != 1 || img[0] != 0xAB {
		t.Fatalf("expected 1-byte image [0xAB], got %v (err=%v)", img, err)
	}
	if count, err := r.uvarint(); err != nil || count != 1 {
		t.Fatalf("expected frame count 1, got %d (err=%v)", count, err)
	}
	period, err := r.float64()
	if err != nil || period != 0.5 {
		t.Fatalf("expected period 0.5 carried as a full f64, got %v (err=%v)", period, err)
	}
	looped, err := r.byte()
	if err != nil || looped != 1 {
		t.Fatalf("expected looped=true, got %v (err=%v)", looped, err)
	}
	flip, err := r.byte()
	if err != nil || flip != 0 {
		t.Fatalf("expected flip=false, got %v (err=%v)", flip, err)
	}
	w, err := r.float64()
	if err != nil || w != 1.5 {
		t.Fatalf("expected width 1.5 carried as a full f64, got %v (err=%v)", w, err)
	}
	h, err := r.float64()
	if err != nil || h != 2.5 {
		t.Fatalf("expected height 2.5 carried as a full f64, got %v (err=%v)", h, err)
	}
}

func TestEncodeS2CUnknownType(t *testing.T) {
	if _, err := encodeS2C("not a message"); err == nil {
		t.Fatal("expected error for unknown message type")
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 42, -42, 1 << 20, -(1 << 20)} {
		if got := uintToInt32(int32ToUint(v)); got != v {
			t.Errorf("zigzag round trip for %d: got %d", v, got)
		}
	}
}
