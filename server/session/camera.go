package session

import "github.com/hydro-mc/hydro/server/world"

// Camera selects what a session's interest window is centered on (§4.5).
// The zero value is CameraNone: the session has no interest window and
// receives no chunk/entity replication at all.
type Camera struct {
	kind   cameraKind
	pos    world.Position
	entity world.EntityID
}

type cameraKind uint8

const (
	cameraNone cameraKind = iota
	cameraPosition
	cameraEntity
)

// CameraNone clears a session's camera.
func CameraNone() Camera { return Camera{kind: cameraNone} }

// CameraAt fixes a session's camera to a world position.
func CameraAt(pos world.Position) Camera { return Camera{kind: cameraPosition, pos: pos} }

// CameraFollowing binds a session's camera to an entity's live position. The
// binding is resolved every tick (§4.6), so it tracks the entity as it
// moves and across entity removal without the session needing to re-issue
// set_camera.
func CameraFollowing(id world.EntityID) Camera { return Camera{kind: cameraEntity, entity: id} }

// resolve returns the camera's current world position. The second result is
// false when the camera has nothing to resolve to: CameraNone, or a
// CameraFollowing entity that has since been removed (§9 notes this as a
// deliberate design choice rather than an error, since entity removal and
// camera rebinding are both ordinary script operations that can race).
func (c Camera) resolve(uni *world.Universe) (world.Position, bool) {
	switch c.kind {
	case cameraPosition:
		return c.pos, true
	case cameraEntity:
		e, ok := uni.Entity(c.entity)
		if !ok || e.Removed() {
			return world.Position{}, false
		}
		return e.Position(), true
	default:
		return world.Position{}, false
	}
}
