package simconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jihwankim/matrixsim/pkg/sim"
	"github.com/jihwankim/matrixsim/pkg/simconfig"
)

const scenarioYAML = `
apiVersion: matrixsim/v1
kind: Scenario
metadata:
  name: ping-pong-demo
spec:
  seed: 7
  time_budget: 10000
  bandwidth:
    bytes_per_jiffy: 100
  pools:
    - name: clients
      count: 1
      kind: pinger
    - name: servers
      count: 1
      kind: ponger
  latency:
    - pool_a: clients
      pool_b: servers
      distribution: uniform
      lo: 1
      hi: 3
`

func TestLoadParsesScenarioDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	sc, err := simconfig.Load(path)
	require.NoError(t, err)
	require.Equal(t, "ping-pong-demo", sc.Metadata.Name)
	require.Equal(t, uint64(7), sc.Spec.Seed)
	require.Len(t, sc.Spec.Pools, 2)
}

func TestToBuilderWiresPoolsAndLatency(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	sc, err := simconfig.Load(path)
	require.NoError(t, err)

	kinds := map[string]simconfig.BehaviorFactory{
		"pinger": func(id sim.ProcessId) sim.ProcessBehavior { return noopBehavior{} },
		"ponger": func(id sim.ProcessId) sim.ProcessBehavior { return noopBehavior{} },
	}

	b, err := sc.ToBuilder(kinds)
	require.NoError(t, err)

	simn, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 2, simn.Engine().ProcessTable().Len())
}

func TestToBuilderRejectsUnregisteredKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	sc, err := simconfig.Load(path)
	require.NoError(t, err)

	_, err = sc.ToBuilder(map[string]simconfig.BehaviorFactory{})
	require.Error(t, err)
}

type noopBehavior struct{}

func (noopBehavior) Start()                                   {}
func (noopBehavior) OnMessage(sim.ProcessId, *sim.MessageEnvelope) {}
func (noopBehavior) OnTimer(sim.TimerId)                       {}
