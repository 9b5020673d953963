package world

// ChunkTileLayer is a single tileset's tile data for one chunk: a dense
// array of ChunkSize*ChunkSize numeric tile ids plus a sparse table of
// per-tile script data overrides.
type ChunkTileLayer struct {
	ids  [ChunkSize * ChunkSize]uint32
	data map[ChunkOffset]map[string]any
}

func newChunkTileLayer() *ChunkTileLayer {
	return &ChunkTileLayer{data: map[ChunkOffset]map[string]any{}}
}

// At returns the numeric tile id stored at offset o.
func (l *ChunkTileLayer) At(o ChunkOffset) uint32 { return l.ids[o.Index()] }

// Set overwrites the numeric tile id at offset o, discarding any per-tile
// data table that was attached to the previous tile (I3).
func (l *ChunkTileLayer) Set(o ChunkOffset, id uint32) {
	l.ids[o.Index()] = id
	delete(l.data, o)
}

// DataAt returns the per-tile data table at o, creating it from newDefault
// if absent.
func (l *ChunkTileLayer) DataAt(o ChunkOffset, newDefault func() map[string]any) map[string]any {
	if t, ok := l.data[o]; ok {
		return t
	}
	t := newDefault()
	l.data[o] = t
	return t
}

// Dense returns a copy of the layer's tile-id array, as sent in a
// LoadChunk message.
func (l *ChunkTileLayer) Dense() [ChunkSize * ChunkSize]uint32 { return l.ids }

// Chunk owns the tile layers, resident entities, and viewer set for one
// 32x32 square of a World.
type Chunk struct {
	Coord     ChunkCoord
	layers    map[TileSetID]*ChunkTileLayer
	entities  map[EntityID]*Entity
	viewers   map[ClientID]Viewer
}

// Viewer is the subset of session behavior the world needs in order to
// replicate chunk/entity changes to a connected client: it is implemented
// by *session.Session (see package session), kept here as a narrow
// interface so world never imports session and viewer sets stay cheap to
// hold in a plain map.
type Viewer interface {
	ID() ClientID
	Send(msg any)
}

// ClientID identifies a connected session.
type ClientID = EntityID

func newChunk(coord ChunkCoord) *Chunk {
	return &Chunk{
		Coord:    coord,
		layers:   map[TileSetID]*ChunkTileLayer{},
		entities: map[EntityID]*Entity{},
		viewers:  map[ClientID]Viewer{},
	}
}

// Layer returns the named tile layer, creating it (zero-initialized, all
// tile 0 / "default") if absent.
func (c *Chunk) Layer(id TileSetID) *ChunkTileLayer {
	l, ok := c.layers[id]
	if !ok {
		l = newChunkTileLayer()
		c.layers[id] = l
	}
	return l
}

// Layers returns every tile layer currently present on the chunk, keyed by
// tileset id. Layers are only created lazily by Layer (which SetTileAt and
// TileDataAt call), so a chunk whose tiles in a tileset were never written
// or had their data requested has no entry for it.
func (c *Chunk) Layers() map[TileSetID]*ChunkTileLayer { return c.layers }

// Entities returns the chunk's resident entity map.
func (c *Chunk) Entities() map[EntityID]*Entity { return c.entities }

// Viewers returns the chunk's current viewer set.
func (c *Chunk) Viewers() map[ClientID]Viewer { return c.viewers }

func (c *Chunk) addViewer(v Viewer)      { c.viewers[v.ID()] = v }
func (c *Chunk) removeViewer(id ClientID) { delete(c.viewers, id) }

// broadcast sends msg to every current viewer of the chunk.
func (c *Chunk) broadcast(msg any) {
	for _, v := range c.viewers {
		v.Send(msg)
	}
}
