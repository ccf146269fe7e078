package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLatencyMatrixFirstMatchWins(t *testing.T) {
	table := newProcessTable()
	table.addProcess("a", noopBehavior{}, 0, Unbounded())
	table.addProcess("b", noopBehavior{}, 0, Unbounded())

	rules := []latencyRule{
		WithinPool("a", Uniform(5, 5)),
		BetweenPools("a", "b", Uniform(9, 9)),
	}
	m := newLatencyMatrix(rules, table)
	rng := NewRng(1)

	// src=0 dst=0 matches the WithinPool("a") rule, not BetweenPools.
	require.Equal(t, Jiffies(5), m.sample(rng, 0, 0))
}

func TestLatencyMatrixFallsBackToZeroWhenNoRuleMatches(t *testing.T) {
	table := newProcessTable()
	table.addProcess("a", noopBehavior{}, 0, Unbounded())
	m := newLatencyMatrix(nil, table)
	rng := NewRng(1)
	require.Equal(t, Jiffies(0), m.sample(rng, 0, 0))
}

func TestUniformLatencyRejectsInvertedBounds(t *testing.T) {
	err := Uniform(10, 5).validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestBernoulliLatencyDeliversDelayOnlyOnHit(t *testing.T) {
	d := Bernoulli(1, 7)
	rng := NewRng(1)
	require.Equal(t, Jiffies(7), d.sample(rng))

	d = Bernoulli(0, 7)
	require.Equal(t, Jiffies(0), d.sample(rng))
}

type noopBehavior struct{}

func (noopBehavior) Start()                              {}
func (noopBehavior) OnMessage(ProcessId, *MessageEnvelope) {}
func (noopBehavior) OnTimer(TimerId)                      {}
