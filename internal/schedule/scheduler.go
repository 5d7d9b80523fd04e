// Package schedule provides a virtual-time task scheduler. Time only moves
// when the owner calls Advance or AdvanceTo, so game timers can be driven by
// a Nakama tick counter, a wall-clock ticker or a test, all the same way.
package schedule

import (
	"container/heap"
	"fmt"
	"time"
)

// TaskID identifies a scheduled task. The zero value never refers to a task.
type TaskID uint64

// Scheduler runs deferred callbacks in due-time order. It is not safe for
// concurrent use; the owning event loop must serialize calls.
type Scheduler struct {
	now    time.Duration
	lastID TaskID
	seq    uint64
	queue  taskHeap
	tasks  map[TaskID]*task
}

// New creates a Scheduler at virtual time zero.
func New() *Scheduler {
	s := &Scheduler{tasks: make(map[TaskID]*task)}
	heap.Init(&s.queue)
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After registers fn to run once delay has elapsed.
func (s *Scheduler) After(delay time.Duration, fn func()) TaskID {
	if delay < 0 {
		panic(fmt.Sprintf("schedule: cannot schedule in the past, delay %s at %s", delay, s.now))
	}
	s.lastID++
	s.seq++
	t := &task{id: s.lastID, due: s.now + delay, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	s.tasks[t.id] = t
	return t.id
}

// Cancel removes a pending task. It reports false when the task already ran
// or was never scheduled.
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, t.index)
	delete(s.tasks, id)
	return true
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// NextDue reports when the earliest pending task falls due.
func (s *Scheduler) NextDue() (time.Duration, bool) {
	if s.queue.Len() == 0 {
		return 0, false
	}
	return s.queue[0].due, true
}

// AdvanceTo moves virtual time forward to now, running every task due at or
// before it. Tasks scheduled by callbacks run in the same call when they fall
// due inside the window. Moving backwards is a no-op. It returns the number
// of tasks run.
func (s *Scheduler) AdvanceTo(now time.Duration) int {
	if now < s.now {
		return 0
	}
	ran := 0
	for s.queue.Len() > 0 && s.queue[0].due <= now {
		t := heap.Pop(&s.queue).(*task)
		delete(s.tasks, t.id)
		s.now = t.due
		t.fn()
		ran++
	}
	s.now = now
	return ran
}

// Advance moves virtual time forward by d.
func (s *Scheduler) Advance(d time.Duration) int {
	return s.AdvanceTo(s.now + d)
}
