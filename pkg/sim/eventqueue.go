package sim

import "container/heap"

// eventKind tags which variant an Event carries.
type eventKind int

const (
	eventDeliver eventKind = iota
	eventTimerFire
)

// Event is a scheduled item ordered by (fire_time, seq) — spec.md §3.
// BandwidthRelease from the spec's data model has no separate dispatch
// step in this implementation: BandwidthGate.emit folds departure/duration
// bookkeeping directly into scheduling a Deliver, so there is nothing left
// to release asynchronously.
type Event struct {
	fireTime Jiffies
	seq      uint64

	kind eventKind
	dst  ProcessId
	src  ProcessId // meaningful only for eventDeliver
	env  *MessageEnvelope
	tid  TimerId // meaningful only for eventTimerFire
}

// eventQueue is a min-heap of *Event ordered by (fireTime, seq), satisfying
// container/heap.Interface. seq is a process-wide monotone counter
// incremented once per Push, guaranteeing insertion order is preserved
// among equal fireTime values (spec.md §4.7).
type eventQueue struct {
	items []*Event
	seq   uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	heap.Init(q)
	return q
}

func (q *eventQueue) Len() int { return len(q.items) }

func (q *eventQueue) Less(i, j int) bool {
	if q.items[i].fireTime != q.items[j].fireTime {
		return q.items[i].fireTime < q.items[j].fireTime
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *eventQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *eventQueue) Push(x any) {
	q.items = append(q.items, x.(*Event))
}

func (q *eventQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return item
}

// push assigns the next seq and enqueues e.
func (q *eventQueue) push(e *Event) {
	q.seq++
	e.seq = q.seq
	heap.Push(q, e)
}

// popMin removes and returns the lowest (fireTime, seq) event.
func (q *eventQueue) popMin() *Event {
	return heap.Pop(q).(*Event)
}

// peekMin returns the lowest (fireTime, seq) event without removing it.
func (q *eventQueue) peekMin() *Event {
	return q.items[0]
}

func (q *eventQueue) isEmpty() bool {
	return len(q.items) == 0
}
