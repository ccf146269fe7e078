package examples

import "github.com/jihwankim/matrixsim/pkg/sim"

// Vote is a minimal broadcast payload: one process's opinion, tagged with
// its own rank so a Collector can tell votes apart.
type Vote struct {
	From  sim.ProcessId
	Value int
}

// VirtualSize implements sim.Payload.
func (Vote) VirtualSize() int { return 32 }

// Voter casts one Vote to every other member of its pool at Start and
// never acts again.
type Voter struct {
	Pool  string
	Value int
}

// Start implements sim.ProcessBehavior.
func (v *Voter) Start() {
	sim.BroadcastWithinPool(v.Pool, Vote{From: sim.Rank(), Value: v.Value})
}

// OnMessage implements sim.ProcessBehavior. Voter ignores incoming votes.
func (*Voter) OnMessage(sim.ProcessId, *sim.MessageEnvelope) {}

// OnTimer implements sim.ProcessBehavior. Voter never schedules timers.
func (*Voter) OnTimer(sim.TimerId) {}

// Collector gathers Votes from a pool using a Combiner and records the sum
// of collected values once a quorum is reached, for tests to observe
// through AnyKV.
type Collector struct {
	Quorum  int
	ResultKey string

	combiner *sim.Combiner[int]
}

// Start implements sim.ProcessBehavior.
func (c *Collector) Start() {
	c.combiner = sim.NewCombiner[int](c.Quorum)
}

// OnMessage implements sim.ProcessBehavior.
func (c *Collector) OnMessage(_ sim.ProcessId, env *sim.MessageEnvelope) {
	vote, ok := sim.TryAs[Vote](env)
	if !ok || c.combiner.Complete() {
		return
	}
	c.combiner.Add(vote.Value)
	if !c.combiner.Complete() {
		return
	}
	sum := 0
	for _, v := range c.combiner.Values() {
		sum += v
	}
	sim.KVSet(c.ResultKey, sum)
}

// OnTimer implements sim.ProcessBehavior. Collector never schedules timers.
func (*Collector) OnTimer(sim.TimerId) {}
