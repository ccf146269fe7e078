package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnboundedGateNeverDelaysDeparture(t *testing.T) {
	g := newBandwidthGate(Unbounded())
	dep, dur := g.emit(10, 1<<20, defaultTimeBudget)
	require.Equal(t, Jiffies(10), dep)
	require.Equal(t, Jiffies(0), dur)
}

func TestBoundedGateSerializesBackToBackEmissions(t *testing.T) {
	g := newBandwidthGate(Bounded(10))

	dep1, dur1 := g.emit(0, 25, defaultTimeBudget) // ceil(25/10) = 3
	require.Equal(t, Jiffies(0), dep1)
	require.Equal(t, Jiffies(3), dur1)

	dep2, dur2 := g.emit(0, 5, defaultTimeBudget) // requested at t=0 but link busy until t=3
	require.Equal(t, Jiffies(3), dep2)
	require.Equal(t, Jiffies(1), dur2)
}

func TestBoundedGateValidationRejectsNonPositiveRate(t *testing.T) {
	require.Error(t, Bounded(0).validate())
	require.Error(t, Bounded(-1).validate())
	require.NoError(t, Bounded(1).validate())
	require.NoError(t, Unbounded().validate())
}
