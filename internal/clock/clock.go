// Package clock provides the simulation clock and its scheduled-continuation queue.
//
// All delayed work in a game (spawn cycle waits, cleanup pacing) is registered on
// the clock and resumed from the simulation goroutine when the clock is stepped.
// Nothing here blocks or starts goroutines.
package clock

import (
	"container/heap"
	"math"
	"time"
)

// Handle identifies a scheduled continuation. The zero Handle is never scheduled.
type Handle uint64

// Clock is a monotonic simulation clock. It is not safe for concurrent use.
type Clock struct {
	now     time.Duration
	nextID  Handle
	queue   continuationQueue
	pending map[Handle]*continuation
}

type continuation struct {
	id    Handle
	due   time.Duration
	fn    func()
	index int
}

// New creates a clock at time zero.
func New() *Clock {
	return &Clock{pending: make(map[Handle]*continuation)}
}

// Now returns the current simulation time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Seconds returns the current simulation time in seconds.
func (c *Clock) Seconds() float64 {
	return c.now.Seconds()
}

// Advance moves the clock forward by dt without running anything.
// Negative steps are ignored.
func (c *Clock) Advance(dt time.Duration) {
	if dt > 0 {
		c.now += dt
	}
}

// After schedules fn to run once the clock reaches Now()+delay.
func (c *Clock) After(delay time.Duration, fn func()) Handle {
	return c.At(c.now+max(delay, 0), fn)
}

// At schedules fn to run once the clock reaches t. A time already passed runs
// on the next RunDue.
func (c *Clock) At(t time.Duration, fn func()) Handle {
	c.nextID++
	k := &continuation{id: c.nextID, due: t, fn: fn}
	heap.Push(&c.queue, k)
	c.pending[k.id] = k
	return k.id
}

// Cancel removes a pending continuation. It reports whether h was still pending.
func (c *Clock) Cancel(h Handle) bool {
	k, ok := c.pending[h]
	if !ok {
		return false
	}
	heap.Remove(&c.queue, k.index)
	delete(c.pending, h)
	return true
}

// Pending reports whether h is scheduled and has not run yet.
func (c *Clock) Pending(h Handle) bool {
	_, ok := c.pending[h]
	return ok
}

// Len returns the number of pending continuations.
func (c *Clock) Len() int {
	return len(c.queue)
}

// RunDue runs every continuation due at or before Now, earliest first; ties run
// in scheduling order. Continuations scheduled while running are picked up in
// the same call if they are already due. It returns the number run.
func (c *Clock) RunDue() int {
	n := 0
	for len(c.queue) > 0 && c.queue[0].due <= c.now {
		k := heap.Pop(&c.queue).(*continuation)
		delete(c.pending, k.id)
		k.fn()
		n++
	}
	return n
}

// Step advances the clock by dt and runs everything that became due.
func (c *Clock) Step(dt time.Duration) int {
	c.Advance(dt)
	return c.RunDue()
}

// continuationQueue is a min-heap ordered by due time, then id.
type continuationQueue []*continuation

func (q continuationQueue) Len() int { return len(q) }

func (q continuationQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].id < q[j].id
}

func (q continuationQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *continuationQueue) Push(x any) {
	k := x.(*continuation)
	k.index = len(*q)
	*q = append(*q, k)
}

func (q *continuationQueue) Pop() any {
	old := *q
	n := len(old)
	k := old[n-1]
	old[n-1] = nil
	k.index = -1
	*q = old[:n-1]
	return k
}

// Seconds converts a float number of seconds to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
