package sim

// HaltReason reports why a run stopped.
type HaltReason int

const (
	// QueueDrained means the event queue emptied before the time budget
	// was reached.
	QueueDrained HaltReason = iota
	// BudgetExceeded means the next pending event's fire_time exceeded
	// the configured time budget; it was never dispatched.
	BudgetExceeded
)

func (r HaltReason) String() string {
	if r == BudgetExceeded {
		return "budget-exceeded"
	}
	return "queue-drained"
}

// RunOutcome summarizes a completed run for reporting/metrics — purely
// observational, it never feeds back into scheduling (SPEC_FULL.md §3).
type RunOutcome struct {
	HaltReason        HaltReason
	FinalClock        Jiffies
	EventsDispatched  uint64
	DeliverCount      uint64
	TimerFireCount    uint64
	DroppedTimerCount uint64
}

// Engine is the virtual-time scheduler: it owns the clock, the global RNG
// stream, the process table, the latency topology, and the event queue,
// and drives the run loop described in spec.md §4.10.
type Engine struct {
	clock     VirtualClock
	globalRng *Rng
	table     *ProcessTable
	latency   *LatencyMatrix
	kv        *AnyKV
	uid       *uidCounter
	queue     *eventQueue
	budget    Jiffies
	logger    Logger

	currentPid ProcessId
	hasCurrent bool

	dispatchCount     uint64
	deliverCount      uint64
	timerFireCount    uint64
	droppedTimerCount uint64
}

// Clock returns the engine's current virtual time. Safe to call from
// outside dispatch (e.g. from pkg/simtui's host-ticker dashboard).
func (e *Engine) Clock() Jiffies {
	return e.clock.Now()
}

// DispatchCount returns the number of events dispatched so far.
func (e *Engine) DispatchCount() uint64 {
	return e.dispatchCount
}

// ProcessTable exposes the engine's process table for read-only
// inspection (reporting/metrics only; never mutated outside Build).
func (e *Engine) ProcessTable() *ProcessTable {
	return e.table
}

// emit constructs an envelope for msg, reserves srcRec's outbound link,
// samples the edge latency, and schedules the resulting Deliver. This is
// the single choke point every context-aware send free function routes
// through (spec.md §4.5).
func (e *Engine) emit(srcRec *processRecord, dst ProcessId, msg Payload) {
	env := newEnvelope(msg)
	srcRec.bytesSent += uint64(env.VirtualSize())
	dep, dur := srcRec.gate.emit(e.clock.Now(), env.VirtualSize(), e.budget)
	delay := e.latency.sample(e.globalRng, srcRec.id, dst)
	arrival := saturatingAdd(saturatingAdd(dep, dur, e.budget), delay, e.budget)
	e.queue.push(&Event{
		fireTime: arrival,
		kind:     eventDeliver,
		dst:      dst,
		src:      srcRec.id,
		env:      env,
	})
}

// broadcastToPool sends msg to every member of pool except rec, in
// ascending ProcessId order, each consuming rec's outbound link serially
// (spec.md §4.5).
func (e *Engine) broadcastToPool(rec *processRecord, pool string, msg Payload) {
	members, err := e.table.ListPool(pool)
	if err != nil {
		panic(err)
	}
	for _, pid := range members {
		if pid == rec.id {
			continue
		}
		e.emit(rec, pid, msg)
	}
}

// sendRandomFromPool picks a uniformly random member of pool, excluding
// rec, and emits msg to it. If rec is the pool's only member, this is a
// silent no-op — there is no valid recipient to select (documented in
// DESIGN.md).
func (e *Engine) sendRandomFromPool(rec *processRecord, pool string, msg Payload) {
	members, err := e.table.ListPool(pool)
	if err != nil {
		panic(err)
	}
	candidates := make([]ProcessId, 0, len(members))
	for _, pid := range members {
		if pid != rec.id {
			candidates = append(candidates, pid)
		}
	}
	if len(candidates) == 0 {
		return
	}
	target := candidates[e.globalRng.UniformN(len(candidates))]
	e.emit(rec, target, msg)
}

// Run drains the event queue under the configured time budget, per the
// loop of spec.md §4.10:
//  1. Set the clock to 0, clear the current-process cell.
//  2. Start every process in ascending ProcessId order.
//  3. Pop the earliest event, advance the clock, dispatch it, repeat until
//     the queue empties or the next event would exceed the budget.
func (e *Engine) Run() RunOutcome {
	e.clock = VirtualClock{}
	e.clearCurrent()

	for _, rec := range e.table.records {
		e.setCurrent(rec.id)
		rec.behavior.Start()
		e.clearCurrent()
	}

	reason := QueueDrained
	for {
		if e.queue.isEmpty() {
			reason = QueueDrained
			break
		}
		next := e.queue.peekMin()
		if next.fireTime > e.budget {
			reason = BudgetExceeded
			break
		}
		event := e.queue.popMin()
		e.clock.advance(event.fireTime)
		e.dispatch(event)
	}

	e.clearCurrent()
	return RunOutcome{
		HaltReason:        reason,
		FinalClock:        e.clock.Now(),
		EventsDispatched:  e.dispatchCount,
		DeliverCount:      e.deliverCount,
		TimerFireCount:    e.timerFireCount,
		DroppedTimerCount: e.droppedTimerCount,
	}
}

func (e *Engine) dispatch(event *Event) {
	switch event.kind {
	case eventDeliver:
		e.dispatchCount++
		e.deliverCount++
		rec := e.table.record(event.dst)
		e.setCurrent(event.dst)
		e.logger.Debugf("deliver t=%d src=%d dst=%d size=%d", event.fireTime, event.src, event.dst, event.env.VirtualSize())
		rec.behavior.OnMessage(event.src, event.env)
		e.clearCurrent()
	case eventTimerFire:
		rec := e.table.record(event.dst)
		if !rec.timers.isLive(event.tid) {
			e.droppedTimerCount++
			return
		}
		e.dispatchCount++
		rec.timers.retire(event.tid)
		e.timerFireCount++
		e.setCurrent(event.dst)
		e.logger.Debugf("timer t=%d dst=%d id=%d", event.fireTime, event.dst, event.tid)
		rec.behavior.OnTimer(event.tid)
		e.clearCurrent()
	default:
		panic(invariantViolation("unknown event kind %d", event.kind))
	}
}
