package world

import "github.com/hydro-mc/hydro/server/geom"

// TestCollisions unions entity-collider overlap (respecting mask
// bitwise-AND != 0) with tile collision for box in worldID, as §4.8's
// AABBHandle.test_collisions.
func (u *Universe) TestCollisions(worldID ID, box geom.AABB, mask uint32) bool {
	for _, e := range u.entities {
		if e.pos.World != worldID {
			continue
		}
		et, ok := u.Registry.EntityType(e.TypeID)
		if !ok {
			continue
		}
		for _, c := range et.Colliders {
			if c.Mask&mask != 0 && geom.Collides(c.AABB.Offset(e.pos.Vec2()), box) {
				return true
			}
		}
	}
	for _, m := range u.tilesAtAABB(worldID, box) {
		if m&mask != 0 {
			return true
		}
	}
	return false
}

// sweepSamples is the number of equally spaced interpolated positions
// (inclusive of both endpoints) used to approximate a swept-AABB-vs-tile
// test, per §4.8/§9.
const sweepSamples = 5

// TestSweep returns the earliest collision time in [0, 1] for box swept
// from its current position to target within worldID, over both entity
// colliders matching mask and tiles sampled along the sweep segment, as
// §4.8's AABBHandle.test_sweep.
func (u *Universe) TestSweep(worldID ID, box geom.AABB, mask uint32, target geom.Vec2) (float64, geom.AABB) {
	best := 1.0
	bestBox := box

	for _, e := range u.entities {
		if e.pos.World != worldID {
			continue
		}
		et, ok := u.Registry.EntityType(e.TypeID)
		if !ok {
			continue
		}
		for _, c := range et.Colliders {
			if c.Mask&mask == 0 {
				continue
			}
			hitBox, t := geom.Sweep(box, c.AABB.Offset(e.pos.Vec2()), target)
			if t < best {
				best, bestBox = t, hitBox
			}
		}
	}

	origin := box.Position()
	for i := 0; i < sweepSamples; i++ {
		frac := float64(i) / float64(sweepSamples-1)
		sample := geom.Vec2{X: origin.X + (target.X-origin.X)*frac, Y: origin.Y + (target.Y-origin.Y)*frac}
		sampleBox := box.Offset(geom.Vec2{X: sample.X - origin.X, Y: sample.Y - origin.Y})
		for _, m := range u.tilesAtAABB(worldID, sampleBox) {
			if m&mask != 0 && frac < best {
				best, bestBox = frac, sampleBox
			}
		}
	}
	return best, bestBox
}
