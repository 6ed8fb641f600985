package sim

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/planet-terrain/internal/config"
	"github.com/Faultbox/planet-terrain/internal/planet"
	"github.com/Faultbox/planet-terrain/internal/quadtree"
	"github.com/Faultbox/planet-terrain/internal/workers"
)

func newPlanet(t *testing.T, sched quadtree.Scheduler) *planet.Planet {
	t.Helper()
	p, err := planet.New(config.PlanetConfig{
		Name:          "Pebble",
		Kind:          config.KindBarren,
		Radius:        5000,
		TerrainHeight: 50,
		Seed:          11,
	}, quadtree.Options{
		GridResolution:   8,
		MinVertexSpacing: 20,
		MaxVertexSpacing: 2000,
		HorizonCulling:   true,
	}, sched)
	require.NoError(t, err)
	return p
}

func TestAltitudes(t *testing.T) {
	d := Descent{From: 10000, To: 1, Steps: 5}
	alts := d.Altitudes()
	require.Len(t, alts, 5)
	require.Equal(t, 10000.0, alts[0])
	require.Equal(t, 1.0, alts[4])
	for i := 1; i < len(alts); i++ {
		require.Less(t, alts[i], alts[i-1])
	}
	require.InDelta(t, 10.0, alts[3], 1e-9)

	require.Equal(t, []float64{7.0}, Descent{From: 7, Steps: 0}.Altitudes())
}

func TestDescentRefinesTowardsSurface(t *testing.T) {
	p := newPlanet(t, quadtree.Inline)
	r := &NullRenderer{}
	d := Descent{
		Planet:    p,
		Renderer:  r,
		Direction: mgl64.Vec3{0.3, 1, 0.2},
		From:      20000,
		To:        2,
		Steps:     6,
		Rounds:    8,
	}

	var steps []Step
	require.NoError(t, d.Run(context.Background(), func(s Step) { steps = append(steps, s) }))
	require.Len(t, steps, 6)

	first, last := steps[0], steps[len(steps)-1]
	require.Less(t, first.Tree.MaxDepth, last.Tree.MaxDepth)
	require.GreaterOrEqual(t, last.Tree.MaxDepth, 4)
	for _, s := range steps {
		require.Positive(t, s.Frame.Drawn, "step %d", s.Index)
		require.Zero(t, s.Tree.Generating)
		require.Equal(t, s.Tree.Uploaded, s.Resident, "step %d", s.Index)
		require.NotEmpty(t, s.String())
	}
	require.Less(t, last.Frame.ClosestDistance, first.Frame.ClosestDistance)

	p.Close()
	require.Zero(t, r.Resident())
}

func TestDescentWithWorkerPool(t *testing.T) {
	pool := workers.New(4)
	p := newPlanet(t, pool)
	defer func() {
		p.Close()
		pool.Close()
	}()

	d := Descent{Planet: p, From: 3000, To: 10, Steps: 3, Rounds: 8, Settle: 2 * time.Second}
	var last Step
	require.NoError(t, d.Run(context.Background(), func(s Step) { last = s }))
	require.Greater(t, last.Tree.MaxDepth, 1)
	require.Positive(t, last.Frame.Drawn)
}

func TestDescentStopsOnCancel(t *testing.T) {
	p := newPlanet(t, quadtree.Inline)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Descent{Planet: p, From: 1000, To: 1, Steps: 10}.Run(ctx, func(Step) {
		calls++
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestDescentNeedsPlanet(t *testing.T) {
	require.Error(t, Descent{}.Run(context.Background(), nil))
}
