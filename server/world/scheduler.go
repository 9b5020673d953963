package world

import "container/heap"

// Tick is the monotonic simulation tick counter.
type Tick uint32

// TaskFunc is a scheduled callable. It returns the number of seconds after
// which it should run again, or reschedule == false for a one-shot task.
type TaskFunc func() (delaySeconds float64, reschedule bool)

type task struct {
	runOn Tick
	fn    TaskFunc
}

type taskHeap []*task

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].runOn < h[j].runOn }
func (h taskHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x interface{}) { *h = append(*h, x.(*task)) }
func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// scheduler is the tick-indexed priority queue of pending tasks. It is not
// safe for concurrent use: it is only ever touched from the tick-loop
// goroutine.
type scheduler struct {
	heap taskHeap
	now  Tick
}

func newScheduler() *scheduler {
	s := &scheduler{}
	heap.Init(&s.heap)
	return s
}

// ceilTicks converts a delay in seconds to a whole number of ticks,
// rounding up so that a task scheduled for "now" still runs on a future
// tick boundary.
func ceilTicks(seconds float64, tps int) Tick {
	if seconds <= 0 {
		return 0
	}
	ticks := seconds * float64(tps)
	whole := Tick(ticks)
	if float64(whole) < ticks {
		whole++
	}
	return whole
}

// schedule pushes fn to run at or after current+ceil(after*tps).
func (s *scheduler) schedule(fn TaskFunc, afterSeconds float64, tps int) {
	heap.Push(&s.heap, &task{runOn: s.now + ceilTicks(afterSeconds, tps), fn: fn})
}

// drainDue pops and runs every task whose runOn is <= the current tick,
// rescheduling those that ask to run again. Tasks a rescheduling task
// pushes for "now" (delay 0) are not run again within the same drain pass,
// since rescheduled tasks are only pushed back once the pass is over.
func (s *scheduler) drainDue(current Tick, tps int) {
	s.now = current
	var again []TaskFunc
	var delays []float64
	for s.heap.Len() > 0 && s.heap[0].runOn <= current {
		t := heap.Pop(&s.heap).(*task)
		if delay, ok := t.fn(); ok {
			again = append(again, t.fn)
			delays = append(delays, delay)
		}
	}
	for i, fn := range again {
		s.schedule(fn, delays[i], tps)
	}
}
