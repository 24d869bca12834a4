package event

// Multi fans an event out to several listeners in order.
type Multi []Listener

// Notify delivers e to every non-nil listener.
func (m Multi) Notify(e Event) {
	for _, l := range m {
		if l != nil {
			l.Notify(e)
		}
	}
}

// Queue buffers events on a channel for a consumer on another goroutine.
// Sends never block the simulation; when the buffer is full the event is dropped
// and counted.
type Queue struct {
	ch      chan Event
	dropped int
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan Event, size)}
}

// Notify enqueues e without blocking.
func (q *Queue) Notify(e Event) {
	select {
	case q.ch <- e:
	default:
		q.dropped++
	}
}

// C returns the receive side of the queue.
func (q *Queue) C() <-chan Event {
	return q.ch
}

// Dropped returns how many events were discarded because the buffer was full.
// Only the producing goroutine may call it.
func (q *Queue) Dropped() int {
	return q.dropped
}

// Close closes the channel. The producer must not Notify afterwards.
func (q *Queue) Close() {
	close(q.ch)
}

// Recorder keeps every event it receives; useful for tests and replays.
type Recorder struct {
	Events []Event
}

// Notify appends e.
func (r *Recorder) Notify(e Event) {
	r.Events = append(r.Events, e)
}

// Count returns how many recorded events satisfy match.
func (r *Recorder) Count(match func(Event) bool) int {
	n := 0
	for _, e := range r.Events {
		if match(e) {
			n++
		}
	}
	return n
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Is reports whether e has the dynamic type T.
func Is[T Event](e Event) bool {
	_, ok := e.(T)
	return ok
}
