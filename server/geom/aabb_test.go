package geom

import (
	"math"
	"testing"
)

func TestCollidesOpenInterval(t *testing.T) {
	a := New(0, 0, 1, 1)
	touching := New(1, 0, 1, 1)
	if Collides(a, touching) {
		t.Fatalf("rectangles that only touch at an edge must not collide")
	}
	overlapping := New(0.5, 0, 1, 1)
	if !Collides(a, overlapping) {
		t.Fatalf("overlapping rectangles must collide")
	}
}

func TestTilesOverlapping(t *testing.T) {
	got := TilesOverlapping(New(0.5, 0.5, 1.2, 1.2))
	want := []TileCoord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	if len(got) != len(want) {
		t.Fatalf("got %d tiles, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tile %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSweepNoMovementUsesCollides(t *testing.T) {
	a := New(0, 0, 1, 1)
	b := New(0.5, 0, 1, 1)
	_, tHit := Sweep(a, b, a.Position())
	if !(tHit <= 0) {
		t.Fatalf("sweep with zero displacement against an overlapping AABB should report t <= 0, got %v", tHit)
	}
}

func TestSweepContactTouches(t *testing.T) {
	a := New(0, 0, 1, 1)
	b := New(2, 0, 1, 1)
	target := Vec2{4, 0}
	contact, tHit := Sweep(a, b, target)
	if tHit >= 1 {
		t.Fatalf("expected a collision before reaching target, got t=%v", tHit)
	}
	if math.Abs((contact.X+contact.W)-b.X) > 1e-9 {
		t.Fatalf("contact AABB should just touch b on the x axis: contact=%+v b=%+v", contact, b)
	}
}

func TestSweepMisses(t *testing.T) {
	a := New(0, 0, 1, 1)
	b := New(10, 10, 1, 1)
	_, tHit := Sweep(a, b, Vec2{1, 0})
	if tHit != 1 {
		t.Fatalf("expected no collision, got t=%v", tHit)
	}
}
