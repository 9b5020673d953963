package world

import "fmt"

// Entity is a live, mutable actor in the world: its position, animation
// state and script data table. An entity is present in exactly one
// chunk's entity map at all times (I1).
type Entity struct {
	TypeID EntityTypeID
	id     EntityID
	pos    Position
	animID AnimationID
	animAt Tick
	removed bool
	// Data is the per-entity opaque script data table, prototyped from the
	// entity type's default data at spawn time.
	Data map[string]any

	world *World
	chunk ChunkCoord
}

// ID returns the entity's stable identifier.
func (e *Entity) ID() EntityID { return e.id }

// Position returns the entity's current position.
func (e *Entity) Position() Position { return e.pos }

// Removed reports whether Remove has been called on this entity.
func (e *Entity) Removed() bool { return e.removed }

// Animation returns the currently assigned animation id and how long it
// has been running, in seconds, as of the given tick.
func (e *Entity) Animation(tps int, now Tick) RunningAnimation {
	return RunningAnimation{ID: e.animID, Time: float64(now-e.animAt) / float64(tps)}
}

func (e *Entity) addMessage(tps int, now Tick) EntityAdd {
	anim := e.Animation(tps, now)
	return EntityAdd{ID: e.id, EntityType: e.TypeID, Position: e.pos.Vec2(), Animation: anim}
}

// Spawn creates a new entity of the given type at pos (§4.4 step 1-5). The
// entity's animation starts at "default" beginning this tick; its data
// table is prototyped from the entity type's default data. Every current
// viewer of the owning chunk is sent AddEntity.
func (u *Universe) Spawn(typeID EntityTypeID, pos Position) (*Entity, error) {
	et, ok := u.Registry.EntityType(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrScript, typeID)
	}
	w := u.World(pos.World)
	coord := ChunkCoordOf(pos.Vec2())
	chunk := w.Chunk(coord)

	e := &Entity{
		TypeID: typeID,
		id:     NewEntityID(),
		pos:    pos,
		animID: "default",
		animAt: u.tick,
		Data:   cloneData(et.DefaultData),
		world:  w,
		chunk:  coord,
	}
	u.entities[e.id] = e
	chunk.entities[e.id] = e

	msg := AddEntityMsg{Entity: e.addMessage(u.tps, u.tick)}
	chunk.broadcast(msg)
	return e, nil
}

func cloneData(proto map[string]any) map[string]any {
	out := make(map[string]any, len(proto))
	for k, v := range proto {
		out[k] = v
	}
	return out
}

// Entity looks up a live entity by id.
func (u *Universe) Entity(id EntityID) (*Entity, bool) {
	e, ok := u.entities[id]
	return e, ok
}

// AllEntities returns every live entity, for queries that must scan the
// whole world (collision/sweep tests).
func (u *Universe) AllEntities() map[EntityID]*Entity { return u.entities }

// SetPosition moves e to pos, diffing viewer sets and enqueuing the
// appropriate Add/Update/Remove messages per §4.4's move algorithm. The
// stored position is only updated after message builders have observed the
// pre-move chunk, matching the spec's ordering requirement.
func (u *Universe) SetPosition(e *Entity, pos Position) {
	oldChunkCoord := e.chunk
	oldWorld := e.world
	newWorld := u.World(pos.World)
	newChunkCoord := ChunkCoordOf(pos.Vec2())

	if oldWorld == newWorld && oldChunkCoord == newChunkCoord {
		chunk := oldWorld.Chunk(oldChunkCoord)
		chunk.broadcast(UpdateEntityPositionMsg{ID: e.id, Pos: pos.Vec2()})
		e.pos = pos
		return
	}

	oldChunk := oldWorld.Chunk(oldChunkCoord)
	newChunk := newWorld.Chunk(newChunkCoord)
	delete(oldChunk.entities, e.id)
	newChunk.entities[e.id] = e

	addMsg := AddEntityMsg{Entity: e.addMessage(u.tps, u.tick)}
	for id, v := range newChunk.viewers {
		if _, stillOld := oldChunk.viewers[id]; !stillOld {
			v.Send(addMsg)
		}
	}
	for id, v := range oldChunk.viewers {
		if nv, keep := newChunk.viewers[id]; keep {
			nv.Send(UpdateEntityPositionMsg{ID: e.id, Pos: pos.Vec2()})
		} else {
			v.Send(RemoveEntityMsg{ID: e.id})
		}
	}

	e.pos = pos
	e.world = newWorld
	e.chunk = newChunkCoord
}

// SetAnimation assigns a new running animation to e, rebasing its begin
// tick to now (§4.4). Setting to an animation the entity's type does not
// define is a script error.
func (u *Universe) SetAnimation(e *Entity, id AnimationID) error {
	et, _ := u.Registry.EntityType(e.TypeID)
	if _, ok := et.Animations[id]; !ok {
		return fmt.Errorf("%w: entity type %q has no animation %q", ErrScript, e.TypeID, id)
	}
	e.animID = id
	e.animAt = u.tick
	u.syncAnimation(e)
	return nil
}

// SetAnimationTime rebases the entity's animation begin tick so that it
// reports as having run for t seconds as of now.
func (u *Universe) SetAnimationTime(e *Entity, t float64) {
	e.animAt = u.tick - Tick(roundTicks(t, u.tps))
	u.syncAnimation(e)
}

func roundTicks(seconds float64, tps int) int64 {
	v := seconds * float64(tps)
	if v < 0 {
		return int64(v - 0.5)
	}
	return int64(v + 0.5)
}

func (u *Universe) syncAnimation(e *Entity) {
	chunk := e.world.Chunk(e.chunk)
	chunk.broadcast(UpdateEntityAnimationMsg{ID: e.id, Animation: e.Animation(u.tps, u.tick)})
}

// Remove deletes e from the global index and its chunk, sends RemoveEntity
// to every current viewer, and marks the entity removed (§4.4).
func (u *Universe) Remove(e *Entity) {
	delete(u.entities, e.id)
	chunk := e.world.Chunk(e.chunk)
	delete(chunk.entities, e.id)
	e.removed = true
	chunk.broadcast(RemoveEntityMsg{ID: e.id})
}
