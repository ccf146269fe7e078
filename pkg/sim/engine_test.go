package sim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jihwankim/matrixsim/pkg/sim"
	"github.com/jihwankim/matrixsim/pkg/sim/examples"
)

func TestPingPongRunsToCompletionWithZeroLatency(t *testing.T) {
	const rounds = 5

	var ponger examples.Ponger
	var pinger *examples.Pinger

	b := sim.NewBuilder().
		AddPool("clients", 1, func(id sim.ProcessId) sim.ProcessBehavior {
			pinger = &examples.Pinger{Peer: 1, Rounds: rounds}
			return pinger
		}).
		AddPool("servers", 1, func(id sim.ProcessId) sim.ProcessBehavior {
			return &ponger
		})

	simn, err := b.Build()
	require.NoError(t, err)

	outcome := simn.Run()
	require.Equal(t, sim.QueueDrained, outcome.HaltReason)
	require.Equal(t, sim.Jiffies(0), outcome.FinalClock)
	require.Equal(t, uint64(2*rounds), outcome.DeliverCount)
}

func TestBroadcastDeliversToEveryOtherPoolMember(t *testing.T) {
	const n = 4
	received := make([]int, n)

	b := sim.NewBuilder().AddPool("ring", n, func(id sim.ProcessId) sim.ProcessBehavior {
		return &broadcastCounter{self: id, counts: received}
	})

	simn, err := b.Build()
	require.NoError(t, err)

	outcome := simn.Run()
	require.Equal(t, sim.QueueDrained, outcome.HaltReason)
	for i, c := range received {
		require.Equalf(t, n-1, c, "process %d received %d messages, want %d", i, c, n-1)
	}
}

// broadcastCounter broadcasts once at Start and counts inbound deliveries,
// writing its own tally into the shared counts slice (safe because the
// engine never runs two handlers concurrently).
type broadcastCounter struct {
	self   sim.ProcessId
	counts []int
}

func (c *broadcastCounter) Start() {
	sim.Broadcast(pingMarker{})
}

func (c *broadcastCounter) OnMessage(sim.ProcessId, *sim.MessageEnvelope) {
	c.counts[c.self]++
}

func (c *broadcastCounter) OnTimer(sim.TimerId) {}

type pingMarker struct{}

func (pingMarker) VirtualSize() int { return 8 }

func TestBoundedBandwidthSerializesDeparturesFromOneSource(t *testing.T) {
	const fanout = 3

	b := sim.NewBuilder().
		WithBandwidth(sim.Bounded(1)). // 1 byte/jiffy: a 64-byte payload takes 64 jiffies to clear
		AddPool("hub", 1, func(id sim.ProcessId) sim.ProcessBehavior {
			return &fanoutSender{targets: fanout}
		}).
		AddPool("leaves", fanout, func(id sim.ProcessId) sim.ProcessBehavior {
			return &recorder{}
		})

	simn, err := b.Build()
	require.NoError(t, err)

	outcome := simn.Run()
	require.Equal(t, sim.QueueDrained, outcome.HaltReason)
	// Three 64-byte sends over a 1 byte/jiffy link depart at 0, 64, 128 and
	// each takes 64 jiffies, so the last arrives at jiffy 192.
	require.Equal(t, sim.Jiffies(192), outcome.FinalClock)
}

type fanoutPayload struct{}

func (fanoutPayload) VirtualSize() int { return 64 }

type fanoutSender struct {
	targets int
}

func (s *fanoutSender) Start() {
	for i := 0; i < s.targets; i++ {
		sim.SendTo(sim.ProcessId(1+i), fanoutPayload{})
	}
}

func (s *fanoutSender) OnMessage(sim.ProcessId, *sim.MessageEnvelope) {}
func (s *fanoutSender) OnTimer(sim.TimerId)                          {}

type recorder struct{}

func (*recorder) Start()                                     {}
func (*recorder) OnMessage(sim.ProcessId, *sim.MessageEnvelope) {}
func (*recorder) OnTimer(sim.TimerId)                         {}

func TestReseedingWithSameSeedIsFullyDeterministic(t *testing.T) {
	runOnce := func(seed uint64) sim.RunOutcome {
		b := sim.NewBuilder().
			WithSeed(seed).
			AddLatencyRule(sim.WithinPool("ring", sim.Uniform(1, 10))).
			AddPool("ring", 6, func(id sim.ProcessId) sim.ProcessBehavior {
				return &randomHopper{}
			})
		simn, err := b.Build()
		require.NoError(t, err)
		return simn.Run()
	}

	first := runOnce(42)
	second := runOnce(42)
	require.Equal(t, first, second)

	third := runOnce(43)
	require.NotEqual(t, first.FinalClock, third.FinalClock)
}

type hopPayload struct{ hops int }

func (hopPayload) VirtualSize() int { return 16 }

// randomHopper relays a token to a random pool peer up to five times, then
// stops, exercising the global RNG stream's draw order under SendRandom.
type randomHopper struct{}

func (*randomHopper) Start() {
	if sim.Rank() == 0 {
		sim.SendRandom(hopPayload{hops: 0})
	}
}

func (*randomHopper) OnMessage(_ sim.ProcessId, env *sim.MessageEnvelope) {
	p, ok := sim.TryAs[hopPayload](env)
	if !ok || p.hops >= 5 {
		return
	}
	sim.SendRandom(hopPayload{hops: p.hops + 1})
}

func (*randomHopper) OnTimer(sim.TimerId) {}

func TestTimerFiresWithoutConsumingBandwidth(t *testing.T) {
	b := sim.NewBuilder().
		WithBandwidth(sim.Bounded(1)).
		AddPool("solo", 1, func(id sim.ProcessId) sim.ProcessBehavior {
			return &timerOnce{}
		})

	simn, err := b.Build()
	require.NoError(t, err)

	outcome := simn.Run()
	require.Equal(t, sim.QueueDrained, outcome.HaltReason)
	require.Equal(t, uint64(1), outcome.TimerFireCount)
	require.Equal(t, sim.Jiffies(100), outcome.FinalClock)
}

type timerOnce struct{}

func (*timerOnce) Start() {
	sim.ScheduleTimerAfter(100)
}

func (*timerOnce) OnMessage(sim.ProcessId, *sim.MessageEnvelope) {}
func (*timerOnce) OnTimer(sim.TimerId)                          {}

func TestBudgetExceededHaltsBeforeDispatchingTheOverrunEvent(t *testing.T) {
	b := sim.NewBuilder().
		WithTimeBudget(50).
		AddPool("solo", 1, func(id sim.ProcessId) sim.ProcessBehavior {
			return &timerOnce{}
		})

	simn, err := b.Build()
	require.NoError(t, err)

	outcome := simn.Run()
	require.Equal(t, sim.BudgetExceeded, outcome.HaltReason)
	require.Equal(t, uint64(0), outcome.EventsDispatched)
	require.Equal(t, sim.Jiffies(0), outcome.FinalClock)
}

func TestDistinctTimersOnOneProcessBothFireWithoutDropping(t *testing.T) {
	b := sim.NewBuilder().AddPool("solo", 1, func(id sim.ProcessId) sim.ProcessBehavior {
		return &doubleScheduler{}
	})

	simn, err := b.Build()
	require.NoError(t, err)

	outcome := simn.Run()
	require.Equal(t, sim.QueueDrained, outcome.HaltReason)
	require.Equal(t, uint64(2), outcome.TimerFireCount)
	require.Equal(t, uint64(0), outcome.DroppedTimerCount)
}

type doubleScheduler struct{}

func (*doubleScheduler) Start() {
	sim.ScheduleTimerAfter(10)
	sim.ScheduleTimerAfter(20)
}

func (*doubleScheduler) OnMessage(sim.ProcessId, *sim.MessageEnvelope) {}
func (*doubleScheduler) OnTimer(sim.TimerId)                          {}
