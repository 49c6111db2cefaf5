package gasdiff

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gasdiff/geom"
)

// lattice places n particles on a square grid in the unit square with
// random velocity directions.
func lattice(n int, r, speed float64, seed int64) []Particle {
	rng := rand.New(rand.NewSource(seed))
	k := int(math.Ceil(math.Sqrt(float64(n))))
	dx := 1 / float64(k+1)

	ps := make([]Particle, n)
	for i := range ps {
		theta := 2 * math.Pi * rng.Float64()
		ps[i] = Particle{
			Pos:    geom.Vec{float64(i%k+1) * dx, float64(i/k+1) * dx},
			Vel:    geom.Vec{speed * math.Cos(theta), speed * math.Sin(theta)},
			Radius: r, Mass: 1,
		}
	}
	return ps
}

func unitChamber(t testing.TB) *geom.Chamber {
	c, err := geom.NewChamber(1, 1, 0.5, 0.4, -1)
	require.NoError(t, err)
	return c
}

type recorder struct {
	steps []int
	fail  bool
}

func (r *recorder) Write(step int, ps []Particle) error {
	r.steps = append(r.steps, step)
	if r.fail {
		return fmt.Errorf("disk full")
	}
	return nil
}

func TestStepInvariants(t *testing.T) {
	c := unitChamber(t)
	ps := lattice(36, 0.01, 1, 7)
	sim, err := NewSimulation(ps, c, 2000)
	require.NoError(t, err)

	energy := KineticEnergy(ps)
	clock := 0.0
	crossed := false
	for step := 0; step < 2000; step++ {
		before := Momentum(ps)
		e, err := sim.Step()
		require.NoError(t, err, "step %d", step)

		require.True(t, e.Time >= 0)
		require.True(t, sim.Clock() >= clock)
		clock = sim.Clock()

		require.InDelta(t, energy, KineticEnergy(ps), 1e-9*energy, "step %d", step)
		if e.Kind == ParticleParticle {
			after := Momentum(ps)
			require.InDelta(t, before[0], after[0], 1e-9, "step %d", step)
			require.InDelta(t, before[1], after[1], 1e-9, "step %d", step)
		}

		for i := range ps {
			require.True(t, c.Inside(ps[i].Pos), "step %d, particle %d", step, i)
			d, k := c.Clearance(ps[i].Pos)
			require.True(t, d >= ps[i].Radius-1e-9,
				"step %d, particle %d is %g from %s", step, i, d, geom.SegmentName(k))
			if c.InMinor(ps[i].Pos) {
				crossed = true
			}
			for j := i + 1; j < len(ps); j++ {
				dist := ps[i].Pos.Sub(ps[j].Pos).Norm()
				require.True(t, dist >= ps[i].Radius+ps[j].Radius-1e-9,
					"step %d, particles %d and %d", step, i, j)
			}
		}
	}
	assert.Equal(t, 2000, sim.StepCount())
	assert.True(t, crossed, "no particle made it through the aperture")
}

func TestDeterministic(t *testing.T) {
	c := unitChamber(t)
	run := func() ([]Particle, []Event) {
		ps := lattice(25, 0.02, 0.5, 3)
		sim, err := NewSimulation(ps, c, 300)
		require.NoError(t, err)
		events := make([]Event, 0, 300)
		for i := 0; i < 300; i++ {
			e, err := sim.Step()
			require.NoError(t, err)
			events = append(events, e)
		}
		return ps, events
	}

	ps1, es1 := run()
	ps2, es2 := run()
	assert.Equal(t, es1, es2)
	assert.Equal(t, ps1, ps2)
}

func TestRun(t *testing.T) {
	c := unitChamber(t)
	rec := &recorder{}
	sim, err := NewSimulation(lattice(16, 0.02, 1, 1), c, 50)
	require.NoError(t, err)
	sim.Writer = rec
	assert.Equal(t, Idle, sim.State())

	sum, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Finished, sim.State())

	assert.Equal(t, 16, sum.N)
	assert.Equal(t, 50, sum.Steps)
	assert.Equal(t, 50, sum.ParticleCollisions+sum.WallCollisions)
	assert.Equal(t, 0, sum.WriteErrors)
	assert.Equal(t, sim.Clock(), sum.SimulatedTime)
	require.Len(t, rec.steps, 51)
	for i, step := range rec.steps {
		assert.Equal(t, i, step)
	}

	_, err = sim.Run(context.Background())
	assert.Error(t, err, "second run")
	_, err = sim.Step()
	assert.Error(t, err, "step after finishing")
}

func TestRunWriteErrors(t *testing.T) {
	c := unitChamber(t)
	rec := &recorder{fail: true}
	sim, err := NewSimulation(lattice(4, 0.02, 1, 1), c, 10)
	require.NoError(t, err)
	sim.Writer = rec

	sum, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Steps)
	assert.Equal(t, 11, sum.WriteErrors)
}

func TestRunCancelled(t *testing.T) {
	c := unitChamber(t)
	rec := &recorder{}
	sim, err := NewSimulation(lattice(4, 0.02, 1, 1), c, 10)
	require.NoError(t, err)
	sim.Writer = rec

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := sim.Run(ctx)
	assert.Equal(t, context.Canceled, err)
	require.NotNil(t, sum)
	assert.Equal(t, 0, sum.Steps)
	assert.Equal(t, []int{0}, rec.steps)
	assert.Equal(t, Finished, sim.State())
}

func TestRunNoEvent(t *testing.T) {
	c := unitChamber(t)
	ps := []Particle{{Pos: geom.Vec{0.5, 0.5}, Radius: 0.01, Mass: 1}}
	sim, err := NewSimulation(ps, c, 10)
	require.NoError(t, err)

	sum, err := sim.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, sum.Steps)
}
