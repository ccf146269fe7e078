package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRejectsDuplicatePoolNames(t *testing.T) {
	_, err := NewBuilder().
		AddPool("a", 1, func(ProcessId) ProcessBehavior { return noopBehavior{} }).
		AddPool("a", 1, func(ProcessId) ProcessBehavior { return noopBehavior{} }).
		Build()
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestBuildRejectsEmptyPool(t *testing.T) {
	_, err := NewBuilder().
		AddPool("a", 0, func(ProcessId) ProcessBehavior { return noopBehavior{} }).
		Build()
	require.Error(t, err)
}

func TestBuildRejectsReservedPoolName(t *testing.T) {
	_, err := NewBuilder().
		AddPool(GlobalPool, 1, func(ProcessId) ProcessBehavior { return noopBehavior{} }).
		Build()
	require.Error(t, err)
}

func TestBuildRejectsLatencyRuleOnUndeclaredPool(t *testing.T) {
	_, err := NewBuilder().
		AddPool("a", 1, func(ProcessId) ProcessBehavior { return noopBehavior{} }).
		AddLatencyRule(WithinPool("ghost", Uniform(0, 0))).
		Build()
	require.Error(t, err)
}

func TestBuildAssignsDenseAscendingIdsAcrossPools(t *testing.T) {
	var seen []ProcessId
	_, err := NewBuilder().
		AddPool("a", 2, func(id ProcessId) ProcessBehavior {
			seen = append(seen, id)
			return noopBehavior{}
		}).
		AddPool("b", 3, func(id ProcessId) ProcessBehavior {
			seen = append(seen, id)
			return noopBehavior{}
		}).
		Build()
	require.NoError(t, err)
	require.Equal(t, []ProcessId{0, 1, 2, 3, 4}, seen)
}
