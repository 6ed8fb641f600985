package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// gathered returns the value of the first sample of a metric family, or
// -1 when it is not registered.
func gathered(t *testing.T, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name || len(mf.GetMetric()) == 0 {
			continue
		}
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			return m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			return m.GetGauge().GetValue()
		}
	}
	return -1
}

func TestCounters(t *testing.T) {
	GenerationFailed()
	before := gathered(t, "planet_terrain_generation_failures_total")
	GenerationFailed()
	GenerationFailed()
	require.Equal(t, before+2, gathered(t, "planet_terrain_generation_failures_total"))

	Split("+Y")
	require.GreaterOrEqual(t, gathered(t, "planet_terrain_splits_total"), 1.0)
}

func TestGauges(t *testing.T) {
	SetLiveNodes(42)
	require.Equal(t, 42.0, gathered(t, "planet_terrain_live_nodes"))

	SetFrame(10, 3)
	require.Equal(t, 10.0, gathered(t, "planet_terrain_patches_drawn"))
	require.Equal(t, 3.0, gathered(t, "planet_terrain_patches_culled"))
}

func TestRegisterGaugeFunc(t *testing.T) {
	fn := func() float64 { return 7 }
	require.NoError(t, RegisterGaugeFunc("test_gauge", "test", fn))
	require.NoError(t, RegisterGaugeFunc("test_gauge", "test", fn))
	require.Equal(t, 7.0, gathered(t, "planet_terrain_test_gauge"))
}
