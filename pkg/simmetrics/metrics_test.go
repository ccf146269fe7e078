package simmetrics_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jihwankim/matrixsim/pkg/sim"
	"github.com/jihwankim/matrixsim/pkg/simmetrics"
)

func TestSnapshotIncludesRunCounters(t *testing.T) {
	outcome := sim.RunOutcome{
		HaltReason:       sim.QueueDrained,
		FinalClock:       128,
		EventsDispatched: 10,
		DeliverCount:     6,
		TimerFireCount:   4,
	}
	registry := simmetrics.Snapshot("demo", outcome, nil)

	text, err := simmetrics.Export(registry)
	require.NoError(t, err)
	require.Contains(t, text, "matrixsim_final_clock_jiffies")
	require.Contains(t, text, "matrixsim_events_dispatched_total")
	require.True(t, strings.Contains(text, `scenario="demo"`))
}

func TestSnapshotIncludesPerProcessBytesSent(t *testing.T) {
	b := sim.NewBuilder().WithSeed(1).AddPool("workers", 2, func(id sim.ProcessId) sim.ProcessBehavior {
		return noopBehavior{}
	})
	simn, err := b.Build()
	require.NoError(t, err)
	outcome := simn.Run()

	registry := simmetrics.Snapshot("demo", outcome, simn.Engine().ProcessTable())
	text, err := simmetrics.Export(registry)
	require.NoError(t, err)
	require.Contains(t, text, "matrixsim_process_bytes_sent")
	require.Contains(t, text, `pid="0"`)
	require.Contains(t, text, `pid="1"`)
}

type noopBehavior struct{}

func (noopBehavior) Start()                                        {}
func (noopBehavior) OnMessage(sim.ProcessId, *sim.MessageEnvelope) {}
func (noopBehavior) OnTimer(sim.TimerId)                            {}
