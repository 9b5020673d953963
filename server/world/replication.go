package world

import "golang.org/x/exp/maps"

// chunkSet is a small set of chunk coordinates, sized for an interest
// window (at most (2*LoadRadius+1)^2 entries).
type chunkSet map[ChunkCoord]struct{}

func newChunkSet(coords []ChunkCoord) chunkSet {
	s := make(chunkSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// UpdateInterest applies §4.5's viewer-diffing algorithm for a camera
// change from (oldWorld, oldChunks) to (newWorld, newChunks), sending
// UnloadChunk/LoadChunk to v as needed. It computes the three-way
// add/keep/remove partition explicitly so that chunks present in both sets
// of the same world produce no message at all (§9 "Interest-set
// diffing").
func (u *Universe) UpdateInterest(v Viewer, oldWorld ID, oldChunks []ChunkCoord, newWorld ID, newChunks []ChunkCoord) {
	if oldWorld == newWorld {
		u.diffWithinWorld(v, u.World(oldWorld), oldChunks, newChunks)
		return
	}
	if len(oldChunks) > 0 {
		ow := u.World(oldWorld)
		for _, c := range oldChunks {
			u.unload(v, ow, c)
		}
	}
	if len(newChunks) > 0 {
		nw := u.World(newWorld)
		for _, c := range newChunks {
			u.load(v, nw, c)
		}
	}
}

func (u *Universe) diffWithinWorld(v Viewer, w *World, oldChunks, newChunks []ChunkCoord) {
	oldSet, newSet := newChunkSet(oldChunks), newChunkSet(newChunks)
	for c := range oldSet {
		if _, keep := newSet[c]; !keep {
			u.unload(v, w, c)
		}
	}
	for c := range newSet {
		if _, had := oldSet[c]; !had {
			u.load(v, w, c)
		}
	}
}

func (u *Universe) unload(v Viewer, w *World, coord ChunkCoord) {
	c, ok := w.PeekChunk(coord)
	if !ok {
		return
	}
	c.removeViewer(v.ID())
	v.Send(UnloadChunkMsg{Coord: coord, EntityIDs: maps.Keys(c.entities)})
}

func (u *Universe) load(v Viewer, w *World, coord ChunkCoord) {
	c := w.Chunk(coord)
	c.addViewer(v)
	layers := make(map[TileSetID][ChunkSize * ChunkSize]uint32, len(c.layers))
	for id, l := range c.layers {
		layers[id] = l.Dense()
	}
	adds := make([]EntityAdd, 0, len(c.entities))
	for _, e := range c.entities {
		adds = append(adds, e.addMessage(u.tps, u.tick))
	}
	v.Send(LoadChunkMsg{Coord: coord, Layers: layers, Entities: adds})
}
