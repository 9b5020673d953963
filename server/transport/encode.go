package transport

import (
	"bytes"
	"fmt"

	"github.com/hydro-mc/hydro/server/geom"
	"github.com/hydro-mc/hydro/server/world"
)

// encodeS2C serializes one server-to-client message per §6's tagged union.
func encodeS2C(msg any) ([]byte, error) {
	var buf bytes.Buffer
	switch m := msg.(type) {
	case world.LoadChunkMsg:
		buf.WriteByte(0)
		putChunkCoord(&buf, m.Coord)
		putUvarint(&buf, uint64(len(m.Layers)))
		for id, layer := range m.Layers {
			putString(&buf, string(id))
			for _, v := range layer {
				putUvarint(&buf, uint64(v))
			}
		}
		putUvarint(&buf, uint64(len(m.Entities)))
		for _, e := range m.Entities {
			putEntityAdd(&buf, e)
		}
	case world.UnloadChunkMsg:
		buf.WriteByte(1)
		putChunkCoord(&buf, m.Coord)
		putUvarint(&buf, uint64(len(m.EntityIDs)))
		for _, id := range m.EntityIDs {
			putString(&buf, id.String())
		}
	case world.SetTileMsg:
		buf.WriteByte(2)
		putUvarint(&buf, uint64(int32ToUint(m.Tile.X)))
		putUvarint(&buf, uint64(int32ToUint(m.Tile.Y)))
		putString(&buf, string(m.TileSet))
		putUvarint(&buf, uint64(m.TileID))
	case world.AddEntityMsg:
		buf.WriteByte(3)
		putEntityAdd(&buf, m.Entity)
	case world.RemoveEntityMsg:
		buf.WriteByte(4)
		putString(&buf, m.ID.String())
	case world.UpdateEntityPositionMsg:
		buf.WriteByte(5)
		putString(&buf, m.ID.String())
		putVec2(&buf, m.Pos)
	case world.UpdateEntityAnimationMsg:
		buf.WriteByte(6)
		putString(&buf, m.ID.String())
		putRunningAnimation(&buf, m.Animation)
	case world.LoadContentMsg:
		buf.WriteByte(7)
		putString(&buf, m.Name)
		putUvarint(&buf, uint64(len(m.Tilesets)))
		for id, content := range m.Tilesets {
			putString(&buf, string(id))
			putBytes(&buf, content.Asset)
			buf.WriteByte(content.Size)
			putUvarint(&buf, uint64(len(content.Tiles)))
			for _, t := range content.Tiles {
				if t == nil {
					buf.WriteByte(0)
					continue
				}
				buf.WriteByte(1)
				buf.WriteByte(t.X)
				buf.WriteByte(t.Y)
			}
		}
		putUvarint(&buf, uint64(len(m.Entities)))
		for id, content := range m.Entities {
			putString(&buf, string(id))
			putUvarint(&buf, uint64(len(content.Animations)))
			for animID, anim := range content.Animations {
				putString(&buf, string(animID))
				putBytes(&buf, anim.Image)
				putUvarint(&buf, uint64(anim.Count))
				putFloat64(&buf, anim.Period)
				putBool(&buf, anim.Looped)
				putBool(&buf, anim.Flip)
			}
			putFloat64(&buf, content.W)
			putFloat64(&buf, content.H)
		}
	case world.CameraInfoMsg:
		buf.WriteByte(8)
		putVec2(&buf, m.Pos)
	default:
		return nil, fmt.Errorf("transport: unknown S2C message type %T", msg)
	}
	return buf.Bytes(), nil
}

func putChunkCoord(buf *bytes.Buffer, c world.ChunkCoord) {
	putUvarint(buf, uint64(int32ToUint(int32(c.X))))
	putUvarint(buf, uint64(int32ToUint(int32(c.Y))))
}

func putVec2(buf *bytes.Buffer, v geom.Vec2) {
	putFloat32(buf, v.X)
	putFloat32(buf, v.Y)
}

func putRunningAnimation(buf *bytes.Buffer, a world.RunningAnimation) {
	putString(buf, string(a.ID))
	putFloat32(buf, a.Time)
}

func putEntityAdd(buf *bytes.Buffer, e world.EntityAdd) {
	putString(buf, e.ID.String())
	putString(buf, string(e.EntityType))
	putVec2(buf, e.Position)
	putRunningAnimation(buf, e.Animation)
}

func putBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

// int32ToUint zig-zag encodes a signed value so small magnitudes (including
// negative chunk/tile coordinates, which are common) stay small varints.
func int32ToUint(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func uintToInt32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}
