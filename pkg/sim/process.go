package sim

import "sort"

// ProcessId is a dense non-negative integer assigned in pool-declaration
// order across all pools, starting at 0, stable for the run (spec.md §3).
type ProcessId int

// GlobalPool is the implicit pool containing every process in the run.
const GlobalPool = "__global__"

// ProcessBehavior is the contract every user process type must satisfy
// (spec.md §6).
type ProcessBehavior interface {
	// Start is invoked once at engine start, in ascending ProcessId order,
	// with that process installed as current.
	Start()
	// OnMessage is invoked on each Deliver addressed to this process.
	OnMessage(from ProcessId, env *MessageEnvelope)
	// OnTimer is invoked on each live TimerFire addressed to this process.
	OnTimer(id TimerId)
}

// processRecord holds everything the engine owns for one ProcessId:
// behavior, pool membership, derived RNG seed, outbound bandwidth gate,
// timer bookkeeping, and a running total of bytes sent (spec.md §3). It
// carries no per-process tie-break counter; equal-time events are ordered
// by the event queue's single seq counter.
type processRecord struct {
	id        ProcessId
	pool      string
	behavior  ProcessBehavior
	seed      uint64
	gate      *BandwidthGate
	timers    *timerRegistry
	bytesSent uint64
}

// ProcessTable stores the ordered list of process records and the pool
// membership maps, both immutable after Build (spec.md §4.8).
type ProcessTable struct {
	records    []*processRecord
	poolOrder  map[string][]ProcessId // ascending ProcessId within each pool
	poolOfProc map[ProcessId]string   // the process's single declared pool
}

func newProcessTable() *ProcessTable {
	return &ProcessTable{
		poolOrder:  make(map[string][]ProcessId),
		poolOfProc: make(map[ProcessId]string),
	}
}

func (t *ProcessTable) addProcess(pool string, behavior ProcessBehavior, globalSeed uint64, bw BandwidthDescription) ProcessId {
	id := ProcessId(len(t.records))
	rec := &processRecord{
		id:       id,
		pool:     pool,
		behavior: behavior,
		seed:     DerivePerProcessSeed(globalSeed, id),
		gate:     newBandwidthGate(bw),
		timers:   newTimerRegistry(),
	}
	t.records = append(t.records, rec)
	t.poolOrder[pool] = append(t.poolOrder[pool], id)
	t.poolOrder[GlobalPool] = append(t.poolOrder[GlobalPool], id)
	t.poolOfProc[id] = pool
	return id
}

func (t *ProcessTable) record(pid ProcessId) *processRecord {
	if int(pid) < 0 || int(pid) >= len(t.records) {
		panic(invariantViolation("unknown process id %d", pid))
	}
	return t.records[pid]
}

// Len reports the total number of processes across all pools.
func (t *ProcessTable) Len() int {
	return len(t.records)
}

// memberOf reports whether pid is a member of pool — either its single
// declared pool or GlobalPool, which every process belongs to.
func (t *ProcessTable) memberOf(pid ProcessId, pool string) bool {
	if pool == GlobalPool {
		return int(pid) < len(t.records)
	}
	return t.poolOfProc[pid] == pool
}

// BytesSent reports the total payload size, in virtual-size bytes, pid has
// emitted over the run so far (SPEC_FULL.md §4.17). Read-only: only
// Engine.emit ever advances this counter.
func (t *ProcessTable) BytesSent(pid ProcessId) uint64 {
	return t.record(pid).bytesSent
}

// ListPool returns the ascending-ProcessId members of the named pool, or a
// lookup error if the pool was never declared (spec.md §4.8, §7).
func (t *ProcessTable) ListPool(name string) ([]ProcessId, error) {
	members, ok := t.poolOrder[name]
	if !ok {
		return nil, lookupError("unknown pool %q", name)
	}
	out := make([]ProcessId, len(members))
	copy(out, members)
	return out, nil
}

// sortedPoolNames returns the user-declared pool names (excluding
// GlobalPool) in lexical order, used only for deterministic diagnostics.
func (t *ProcessTable) sortedPoolNames() []string {
	names := make([]string, 0, len(t.poolOrder))
	for name := range t.poolOrder {
		if name == GlobalPool {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
