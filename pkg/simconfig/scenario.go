// Package simconfig loads a declarative scenario file describing a run's
// pools, latency topology, and outbound bandwidth, and converts it into a
// sim.Builder. It never constructs user ProcessBehavior instances itself —
// callers pass a behavior factory per pool kind to Scenario.ToBuilder.
package simconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jihwankim/matrixsim/pkg/sim"
)

// Scenario is the top-level document shape a scenario YAML file must
// satisfy.
type Scenario struct {
	APIVersion string       `yaml:"apiVersion"`
	Kind       string       `yaml:"kind"`
	Metadata   Metadata     `yaml:"metadata"`
	Spec       ScenarioSpec `yaml:"spec"`
}

// Metadata carries descriptive, non-functional information about a
// scenario.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// ScenarioSpec is the functional body of a scenario.
type ScenarioSpec struct {
	Seed       uint64          `yaml:"seed"`
	TimeBudget uint64          `yaml:"time_budget"`
	Bandwidth  *BandwidthSpec  `yaml:"bandwidth,omitempty"`
	Pools      []PoolSpec      `yaml:"pools"`
	Latency    []LatencyRuleSpec `yaml:"latency,omitempty"`
}

// BandwidthSpec describes the outbound link every process in the run
// gets; per-pool overrides aren't supported, matching
// sim.Builder.WithBandwidth's single run-wide description.
type BandwidthSpec struct {
	BytesPerJiffy int64 `yaml:"bytes_per_jiffy"` // 0 means unbounded
}

// PoolSpec declares one pool: its name, how many processes it contains,
// and which registered behavior kind constructs each process.
type PoolSpec struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
	Kind  string `yaml:"kind"`
}

// LatencyRuleSpec declares one latency rule, matching sim.WithinPool or
// sim.BetweenPools depending on whether PoolB is set.
type LatencyRuleSpec struct {
	PoolA string `yaml:"pool_a"`
	PoolB string `yaml:"pool_b,omitempty"`

	Distribution string  `yaml:"distribution"` // "uniform", "normal", "bernoulli"
	Lo           int64   `yaml:"lo,omitempty"`
	Hi           int64   `yaml:"hi,omitempty"`
	Mean         float64 `yaml:"mean,omitempty"`
	StdDev       float64 `yaml:"stddev,omitempty"`
	P            float64 `yaml:"p,omitempty"`
	Delay        int64   `yaml:"delay,omitempty"`
}

// BehaviorFactory constructs a ProcessBehavior for a process assigned the
// given id within a pool of the given kind.
type BehaviorFactory func(id sim.ProcessId) sim.ProcessBehavior

// Load reads and parses a scenario file at path, expanding environment
// variables in its content first (ground in the teacher's config.Load,
// which does the same before unmarshaling YAML).
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("simconfig: read %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var sc Scenario
	if err := yaml.Unmarshal([]byte(expanded), &sc); err != nil {
		return nil, fmt.Errorf("simconfig: parse %s: %w", path, err)
	}
	return &sc, nil
}

// ToBuilder converts a parsed Scenario into a sim.Builder. kinds maps each
// pool's declared Kind to the factory that constructs its processes; a
// pool naming an unregistered kind is an error.
func (sc *Scenario) ToBuilder(kinds map[string]BehaviorFactory) (*sim.Builder, error) {
	b := sim.NewBuilder().WithSeed(sc.Spec.Seed)
	if sc.Spec.TimeBudget > 0 {
		b = b.WithTimeBudget(sim.Jiffies(sc.Spec.TimeBudget))
	}
	if sc.Spec.Bandwidth != nil {
		if sc.Spec.Bandwidth.BytesPerJiffy < 0 {
			return nil, fmt.Errorf("simconfig: bandwidth bytes_per_jiffy must not be negative, got %d", sc.Spec.Bandwidth.BytesPerJiffy)
		}
		if sc.Spec.Bandwidth.BytesPerJiffy > 0 {
			b = b.WithBandwidth(sim.Bounded(sc.Spec.Bandwidth.BytesPerJiffy))
		} else {
			b = b.WithBandwidth(sim.Unbounded())
		}
	}

	for _, pool := range sc.Spec.Pools {
		factory, ok := kinds[pool.Kind]
		if !ok {
			return nil, fmt.Errorf("simconfig: pool %q references unregistered kind %q", pool.Name, pool.Kind)
		}
		b = b.AddPool(pool.Name, pool.Count, factory)
	}

	for _, rule := range sc.Spec.Latency {
		dist, err := rule.distribution()
		if err != nil {
			return nil, err
		}
		if rule.PoolB == "" {
			b = b.AddLatencyRule(sim.WithinPool(rule.PoolA, dist))
		} else {
			b = b.AddLatencyRule(sim.BetweenPools(rule.PoolA, rule.PoolB, dist))
		}
	}

	return b, nil
}

func (r LatencyRuleSpec) distribution() (sim.LatencyDistribution, error) {
	switch r.Distribution {
	case "", "uniform":
		return sim.Uniform(r.Lo, r.Hi), nil
	case "normal":
		return sim.Normal(r.Mean, r.StdDev), nil
	case "bernoulli":
		return sim.Bernoulli(r.P, r.Delay), nil
	default:
		return sim.LatencyDistribution{}, fmt.Errorf("simconfig: unknown latency distribution %q", r.Distribution)
	}
}
