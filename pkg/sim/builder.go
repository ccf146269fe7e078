package sim

// defaultTimeBudget is the documented default time budget when a Builder
// does not set one explicitly (spec.md §4.11).
const defaultTimeBudget Jiffies = 1_000_000

// PoolSpec declares one pool: its name, its process count, and a factory
// invoked once per ProcessId to construct that process's behavior.
type PoolSpec struct {
	Name    string
	Count   int
	Factory func(ProcessId) ProcessBehavior
}

// Builder collects the static configuration of a run — seed, time budget,
// pool declarations, latency topology, and outbound bandwidth — and
// validates it into a runnable Simulation (spec.md §4.11).
type Builder struct {
	seed       uint64
	budget     Jiffies
	pools      []PoolSpec
	rules      []latencyRule
	bandwidth  BandwidthDescription
	logger     Logger
}

// NewBuilder returns a Builder with documented defaults: seed 0, the
// default time budget, and an unbounded outbound link.
func NewBuilder() *Builder {
	return &Builder{
		seed:      0,
		budget:    defaultTimeBudget,
		bandwidth: Unbounded(),
		logger:    noopLogger{},
	}
}

// WithSeed sets the global seed.
func (b *Builder) WithSeed(seed uint64) *Builder {
	b.seed = seed
	return b
}

// WithTimeBudget sets the run's time budget.
func (b *Builder) WithTimeBudget(budget Jiffies) *Builder {
	b.budget = budget
	return b
}

// WithBandwidth sets the outbound bandwidth description shared by every
// process in the run.
func (b *Builder) WithBandwidth(desc BandwidthDescription) *Builder {
	b.bandwidth = desc
	return b
}

// WithLogger installs a Logger the engine uses for its own internal debug
// trace. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// AddPool declares a pool of count processes, each constructed by calling
// factory with its freshly assigned ProcessId.
func (b *Builder) AddPool(name string, count int, factory func(ProcessId) ProcessBehavior) *Builder {
	b.pools = append(b.pools, PoolSpec{Name: name, Count: count, Factory: factory})
	return b
}

// AddLatencyRule appends a WithinPool or BetweenPools rule to the latency
// topology, in declaration order.
func (b *Builder) AddLatencyRule(rule latencyRule) *Builder {
	b.rules = append(b.rules, rule)
	return b
}

// Build validates the collected configuration and, on success, returns a
// runnable Simulation. Validation failures are configuration errors
// (spec.md §7) and never panic.
func (b *Builder) Build() (*Simulation, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	table := newProcessTable()
	for _, pool := range b.pools {
		for i := 0; i < pool.Count; i++ {
			// Reserve the id first so the factory can close over it if it
			// needs to (most behaviors don't; some do, e.g. to log their
			// own rank before Start is ever called).
			nextID := ProcessId(table.Len())
			behavior := pool.Factory(nextID)
			table.addProcess(pool.Name, behavior, b.seed, b.bandwidth)
		}
	}

	eng := &Engine{
		globalRng: NewRng(b.seed),
		table:     table,
		latency:   newLatencyMatrix(b.rules, table),
		kv:        newAnyKV(),
		uid:       &uidCounter{},
		queue:     newEventQueue(),
		budget:    b.budget,
		logger:    b.logger,
	}
	return &Simulation{engine: eng}, nil
}

func (b *Builder) validate() error {
	seen := make(map[string]bool, len(b.pools))
	for _, pool := range b.pools {
		if pool.Name == "" {
			return configError("pool name must not be empty")
		}
		if pool.Name == GlobalPool {
			return configError("pool name %q is reserved", GlobalPool)
		}
		if seen[pool.Name] {
			return configError("duplicate pool name %q", pool.Name)
		}
		seen[pool.Name] = true
		if pool.Count <= 0 {
			return configError("pool %q must declare at least one process", pool.Name)
		}
	}

	for _, rule := range b.rules {
		if err := rule.dist.validate(); err != nil {
			return err
		}
		if !seen[rule.a] {
			return configError("latency rule references undeclared pool %q", rule.a)
		}
		if rule.kind == ruleBetweenPools && !seen[rule.b] {
			return configError("latency rule references undeclared pool %q", rule.b)
		}
	}

	if err := b.bandwidth.validate(); err != nil {
		return err
	}

	return nil
}

// Simulation wraps a validated Engine, ready to Run.
type Simulation struct {
	engine *Engine
}

// Run executes the simulation to completion and returns its outcome.
func (s *Simulation) Run() RunOutcome {
	return s.engine.Run()
}

// Engine exposes the underlying Engine for reporting/metrics/dashboard
// integrations that need read access during or after a run.
func (s *Simulation) Engine() *Engine {
	return s.engine
}
