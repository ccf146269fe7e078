package sim

// Logger is the minimal interface the engine uses for its own internal
// debug trace (dispatch events, halt reason). pkg/simlog implements this
// atop zerolog and also drives the ambient log.Debug/log.Info free
// functions described in SPEC_FULL.md §4.14 — sim itself has no logging
// dependency beyond this interface.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}

// currentEngine is the ambient "current process" cell of spec.md §4.9:
// a process-wide (in the OS-process sense) single slot, written only by
// the run loop around each handler invocation. Only one Engine may be
// mid-dispatch at a time in a given OS process.
var currentEngine *Engine

func (e *Engine) setCurrent(pid ProcessId) {
	e.currentPid = pid
	e.hasCurrent = true
	currentEngine = e
}

func (e *Engine) clearCurrent() {
	e.hasCurrent = false
	currentEngine = nil
}

func requireCurrent() (*Engine, *processRecord) {
	if currentEngine == nil || !currentEngine.hasCurrent {
		panic(contextMissing("called with no current process"))
	}
	rec := currentEngine.table.record(currentEngine.currentPid)
	return currentEngine, rec
}

// Rank returns the calling process's own ProcessId. Requires a current
// process.
func Rank() ProcessId {
	_, rec := requireCurrent()
	return rec.id
}

// Now returns the engine's current virtual time. Requires a current
// process.
func Now() Jiffies {
	e, _ := requireCurrent()
	return e.clock.Now()
}

// SendTo sends msg to pid. Self-sends are permitted and consume bandwidth
// identically to any other emission — there is no loopback special case
// (spec.md §9 Open Questions, decision 1).
func SendTo(pid ProcessId, msg Payload) {
	e, rec := requireCurrent()
	e.table.record(pid) // validates pid, panics via invariantViolation if unknown
	e.emit(rec, pid, msg)
}

// Broadcast sends msg to every process in GlobalPool except the caller,
// in ascending ProcessId order.
func Broadcast(msg Payload) {
	e, rec := requireCurrent()
	e.broadcastToPool(rec, GlobalPool, msg)
}

// BroadcastWithinPool sends msg to every other member of the named pool,
// in ascending ProcessId order. Panics with a lookup error if the pool is
// unknown.
func BroadcastWithinPool(pool string, msg Payload) {
	e, rec := requireCurrent()
	e.broadcastToPool(rec, pool, msg)
}

// SendRandom sends msg to a uniformly random process in GlobalPool,
// excluding the caller (spec.md §9 Open Questions, decision 2).
func SendRandom(msg Payload) {
	e, rec := requireCurrent()
	e.sendRandomFromPool(rec, GlobalPool, msg)
}

// SendRandomFromPool sends msg to a uniformly random member of the named
// pool, excluding the caller.
func SendRandomFromPool(pool string, msg Payload) {
	e, rec := requireCurrent()
	e.sendRandomFromPool(rec, pool, msg)
}

// ScheduleTimerAfter schedules a TimerFire for the caller d Jiffies from
// now and returns its freshly issued id. Timers do not consume bandwidth.
func ScheduleTimerAfter(d Jiffies) TimerId {
	e, rec := requireCurrent()
	id := rec.timers.issue()
	e.queue.push(&Event{
		fireTime: saturatingAdd(e.clock.Now(), d, e.budget),
		kind:     eventTimerFire,
		dst:      rec.id,
		tid:      id,
	})
	return id
}

// ListPool returns the ascending-ProcessId members of the named pool.
// Panics with a lookup error if the pool is unknown.
func ListPool(pool string) []ProcessId {
	e, _ := requireCurrent()
	members, err := e.table.ListPool(pool)
	if err != nil {
		panic(err)
	}
	return members
}

// ChooseFromPool returns a uniformly random member of the named pool.
// Panics with a lookup error if the pool is unknown.
func ChooseFromPool(pool string) ProcessId {
	e, _ := requireCurrent()
	members, err := e.table.ListPool(pool)
	if err != nil {
		panic(err)
	}
	return members[e.globalRng.UniformN(len(members))]
}

// GlobalUniqueID returns the next value of the run-wide monotonic id
// counter.
func GlobalUniqueID() uint64 {
	e, _ := requireCurrent()
	return e.uid.allocate()
}

// Seed returns the caller's per-process RNG seed (configuration::seed() in
// spec.md §6).
func Seed() uint64 {
	_, rec := requireCurrent()
	return rec.seed
}

// ProcessCount returns the total number of processes in the run
// (configuration::process_number() in spec.md §6).
func ProcessCount() int {
	e, _ := requireCurrent()
	return e.table.Len()
}

// KVGet returns the AnyKV value stored at key, downcast to T. Panics with a
// type error if key is missing or holds a different type (spec.md §7).
func KVGet[T any](key string) T {
	e, _ := requireCurrent()
	return anyKVGet[T](e.kv, key)
}

// KVSet overwrites the AnyKV value stored at key.
func KVSet[T any](key string, value T) {
	e, _ := requireCurrent()
	e.kv.set(key, value)
}

// KVModify applies f to the in-place value at key. Panics with a type
// error under the same conditions as KVGet (spec.md §7).
func KVModify[T any](key string, f func(T) T) {
	e, _ := requireCurrent()
	anyKVModify[T](e.kv, key, f)
}

// CurrentRank reports the calling OS process's current ProcessId, for use
// by ambient logging adapters (pkg/simlog) that need to tag records
// without themselves requiring a current process. The second return value
// is false outside dispatch.
func CurrentRank() (ProcessId, bool) {
	if currentEngine == nil || !currentEngine.hasCurrent {
		return 0, false
	}
	return currentEngine.currentPid, true
}

// CurrentClock reports the calling OS process's current virtual time, or 0
// if no Engine is active. See CurrentRank.
func CurrentClock() Jiffies {
	if currentEngine == nil {
		return 0
	}
	return currentEngine.clock.Now()
}
