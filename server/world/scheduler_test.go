package world

import "testing"

// Scenario 5 from §8: schedule(f, 0) where f returns 0.5 runs at tick n,
// n+15, n+30, ... given TPS=30.
func TestSchedulerRescheduling(t *testing.T) {
	u := newTestUniverse(t)
	var runs []Tick
	u.Schedule(func() (float64, bool) {
		runs = append(runs, u.CurrentTick())
		return 0.5, true
	}, 0)

	for i := 0; i < 40; i++ {
		u.Advance()
	}

	want := []Tick{1, 16, 31}
	if len(runs) != len(want) {
		t.Fatalf("got %d runs %v, want %d runs %v", len(runs), runs, len(want), want)
	}
	for i, w := range want {
		if runs[i] != w {
			t.Fatalf("run %d: got tick %v, want %v", i, runs[i], w)
		}
	}
}

// P6: a task scheduled with delay d >= 0 never executes earlier than
// n+ceil(d*tps), and exactly once per scheduled instance.
func TestSchedulerNeverEarly(t *testing.T) {
	u := newTestUniverse(t)
	wantTick := ceilTicks(0.1, 30) // scheduled before any Advance, so base tick is 0
	var ran Tick
	count := 0
	u.Schedule(func() (float64, bool) {
		ran = u.CurrentTick()
		count++
		return 0, false
	}, 0.1)

	for i := 0; i < 5; i++ {
		u.Advance()
		if u.CurrentTick() < wantTick && count != 0 {
			t.Fatalf("task ran at tick %v, before its scheduled tick %v", u.CurrentTick(), wantTick)
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one run, got %d", count)
	}
	if ran != wantTick {
		t.Fatalf("expected run at tick %v, got %v", wantTick, ran)
	}
}
