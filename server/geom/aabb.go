// Package geom implements the axis-aligned rectangle geometry used by
// gameplay queries: overlap tests, tile enumeration and swept collision.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a world-space position or displacement. The wire format carries
// Vec2 as float32; all in-world math is done in float64.
type Vec2 struct {
	X, Y float64
}

// Add returns v translated by other.
func (v Vec2) Add(other Vec2) Vec2 {
	r := mgl64.Vec2{v.X, v.Y}.Add(mgl64.Vec2{other.X, other.Y})
	return Vec2{r[0], r[1]}
}

// Sub returns the displacement from other to v.
func (v Vec2) Sub(other Vec2) Vec2 {
	r := mgl64.Vec2{v.X, v.Y}.Sub(mgl64.Vec2{other.X, other.Y})
	return Vec2{r[0], r[1]}
}

// AABB is an axis-aligned rectangle with its origin at (X, Y) and extent
// (W, H). It is the only collision primitive gameplay code operates on.
type AABB struct {
	X, Y, W, H float64
}

// New returns an AABB with the given origin and size.
func New(x, y, w, h float64) AABB {
	return AABB{X: x, Y: y, W: w, H: h}
}

// Offset returns a the AABB translated by d.
func (a AABB) Offset(d Vec2) AABB {
	return AABB{X: a.X + d.X, Y: a.Y + d.Y, W: a.W, H: a.H}
}

// Position returns the AABB's origin as a Vec2.
func (a AABB) Position() Vec2 {
	return Vec2{a.X, a.Y}
}

// Collides reports whether a and b overlap on an open interval on both
// axes: rectangles that only touch at an edge do not collide.
func Collides(a, b AABB) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X &&
		a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// TileCoord is an integer tile coordinate.
type TileCoord struct {
	X, Y int32
}

// TilesOverlapping returns, in row-major order, every integer tile whose
// unit square intersects the closed rectangle described by a.
func TilesOverlapping(a AABB) []TileCoord {
	xStart := int32(math.Floor(a.X))
	xEnd := int32(math.Ceil(a.X + a.W))
	yEnd := int32(math.Ceil(a.Y + a.H))
	y := int32(math.Floor(a.Y))

	var out []TileCoord
	for ; y < yEnd; y++ {
		for x := xStart; x < xEnd; x++ {
			out = append(out, TileCoord{X: x, Y: y})
		}
	}
	return out
}

// Sweep performs a continuous AABB-vs-static-AABB test: self is swept from
// its current position towards target, tested against the stationary other.
// It returns the AABB positioned at the moment of contact and the collision
// time t in [0, 1], where t == 1 means no collision occurred along the
// segment. With zero displacement the result is t == 0 if self already
// collides with other, and t == 1 otherwise.
func Sweep(self, other AABB, target Vec2) (AABB, float64) {
	vx := target.X - self.X
	vy := target.Y - self.Y
	if vx == 0 && vy == 0 {
		if Collides(self, other) {
			return self, 0
		}
		return self, 1
	}

	var xEntry, xExit float64
	if vx != 0 {
		var invEntry, invExit float64
		if vx > 0 {
			invEntry = other.X - (self.X + self.W)
			invExit = (other.X + other.W) - self.X
		} else {
			invEntry = (other.X + other.W) - self.X
			invExit = other.X - (self.X + self.W)
		}
		xEntry, xExit = invEntry/vx, invExit/vx
	} else {
		xEntry, xExit = math.Inf(-1), math.Inf(1)
	}

	var yEntry, yExit float64
	if vy != 0 {
		var invEntry, invExit float64
		if vy > 0 {
			invEntry = other.Y - (self.Y + self.H)
			invExit = (other.Y + other.H) - self.Y
		} else {
			invEntry = (other.Y + other.H) - self.Y
			invExit = other.Y - (self.Y + self.H)
		}
		yEntry, yExit = invEntry/vy, invExit/vy
	} else {
		yEntry, yExit = math.Inf(-1), math.Inf(1)
	}

	entry := math.Max(xEntry, yEntry)
	exit := math.Min(xExit, yExit)

	t := entry
	if entry > exit || (xEntry < 0 && yEntry < 0) || xEntry > 1 || yEntry > 1 {
		t = 1
	}
	return AABB{X: self.X + vx*t, Y: self.Y + vy*t, W: self.W, H: self.H}, t
}
