package sim

import "math/rand"

// Rng is a deterministic pseudo-random source seeded from a 64-bit value.
// The engine keeps exactly one Rng alive as the "global stream" (used for
// latency sampling and random-target selection; a send_random* call draws
// its target first and then the resulting send's latency, see DESIGN.md);
// per-process seeds, derived from the global seed rather than drawn from
// this stream, are handed to user code through Seed() but are never used to drive
// engine-internal sampling, so replacing unrelated user code never
// perturbs the samples the engine itself consumes.
type Rng struct {
	r *rand.Rand
}

// NewRng seeds a new Rng from a 64-bit value.
func NewRng(seed uint64) *Rng {
	return &Rng{r: rand.New(rand.NewSource(int64(seed)))} //nolint:gosec
}

// UniformInt draws one sample uniformly from the inclusive range [lo, hi].
func (g *Rng) UniformInt(lo, hi int64) int64 {
	if hi < lo {
		panic(invariantViolation("uniform range inverted: lo=%d hi=%d", lo, hi))
	}
	span := hi - lo + 1
	return lo + g.r.Int63n(span)
}

// Normal draws one sample from Normal(mean, stddev), clamped to >= 0 and
// rounded to the nearest integer Jiffy, per spec.md §4.4.
func (g *Rng) Normal(mean, stddev float64) int64 {
	v := g.r.NormFloat64()*stddev + mean
	if v < 0 {
		v = 0
	}
	return int64(v + 0.5)
}

// Bernoulli draws one uniform sample and reports whether it fell within
// probability p — used by the Bernoulli latency distribution.
func (g *Rng) Bernoulli(p float64) bool {
	return g.r.Float64() < p
}

// UniformN draws one sample uniformly from [0, n) — used for
// choose_from_pool and send_random*.
func (g *Rng) UniformN(n int) int {
	if n <= 0 {
		panic(invariantViolation("uniform selection over empty range"))
	}
	return g.r.Intn(n)
}

// DerivePerProcessSeed mixes a global seed with a ProcessId into a
// per-process seed, exposed to user code via configuration.Seed(). The
// mixing is a non-reversible splitmix64 round (SPEC_FULL.md Open Question
// 4): distinct processes get well-distributed, reproducible seeds without
// ever consuming from the engine's own global stream.
func DerivePerProcessSeed(globalSeed uint64, pid ProcessId) uint64 {
	x := globalSeed ^ (uint64(pid) * 0x9E3779B97F4A7C15)
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x = x ^ (x >> 31)
	return x
}
