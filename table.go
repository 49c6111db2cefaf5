package gasdiff

import (
	"math"

	"github.com/phil-mansfield/gasdiff/geom"
)

var (
	// Epsilon is the relative tolerance used for near-miss collisions and for
	// deciding that two event times are tied.
	Epsilon = 1e-12
)

// Table holds the predicted time to collision of every pair of bodies. Rows
// and columns [0, N) are particles and [N, N + geom.NumSegments) are walls.
// Entries which will never happen are geom.Never.
type Table struct {
	N     int
	width int
	times []float64
}

// NewTable allocates a table for n particles.
func NewTable(n int) *Table {
	w := n + geom.NumSegments
	t := &Table{N: n, width: w, times: make([]float64, w*w)}
	for i := range t.times {
		t.times[i] = geom.Never
	}
	return t
}

// At returns the time until bodies i and j collide.
func (t *Table) At(i, j int) float64 { return t.times[i*t.width+j] }

func (t *Table) set(i, j int, val float64) {
	t.times[i*t.width+j] = val
	t.times[j*t.width+i] = val
}

// Wall returns the time until particle i hits wall k.
func (t *Table) Wall(i, k int) float64 { return t.At(i, t.N+k) }

// Predict overwrites every entry of the table using the current state of ps.
func (t *Table) Predict(ps []Particle, c *geom.Chamber) {
	if len(ps) != t.N {
		panic("Table size does not match particle count.")
	}

	for i := range ps {
		t.set(i, i, geom.Never)
		for j := i + 1; j < len(ps); j++ {
			t.set(i, j, PairTime(&ps[i], &ps[j]))
		}
		for k := range c.Segments {
			t.set(i, t.N+k, c.Segments[k].Time(ps[i].Pos, ps[i].Vel, ps[i].Radius))
		}
	}
}

// PairTime returns the time until the discs a and b touch, or geom.Never if
// they are separating or will miss each other. Discs which are already in
// contact (up to geom.Slack) and still approaching collide immediately.
func PairTime(a, b *Particle) float64 {
	dp := a.Pos.Sub(b.Pos)
	dv := a.Vel.Sub(b.Vel)
	sigma := a.Radius + b.Radius

	bb := dv.Dot(dp)
	if bb >= 0 {
		return geom.Never
	}
	if dp.Norm2() <= sigma*sigma*(1+geom.Slack) {
		return 0
	}

	vv := dv.Norm2()
	if vv <= Epsilon*Epsilon*dp.Norm2() {
		return geom.Never
	}

	d := bb*bb - vv*(dp.Norm2()-sigma*sigma)
	if d <= Epsilon*bb*bb {
		return geom.Never
	}

	dt := -(bb + math.Sqrt(d)) / vv
	if dt <= 0 {
		return geom.Never
	}
	return dt
}

// Next returns the earliest finite event in the table. Times within a
// relative Epsilon of the earliest are tied, and ties go to the lowest
// (I, J) pair, with walls ordered after all particles. A particle-particle
// event therefore wins against a wall event of the same particle.
func (t *Table) Next() (Event, error) {
	first := geom.Never
	for i := 0; i < t.N; i++ {
		for j := i + 1; j < t.width; j++ {
			if dt := t.At(i, j); dt >= 0 && dt < first {
				first = dt
			}
		}
	}
	if math.IsInf(first, +1) {
		return Event{Time: geom.Never}, ErrNoEvent
	}

	cut := first + Epsilon*math.Max(1, first)
	for i := 0; i < t.N; i++ {
		for j := i + 1; j < t.width; j++ {
			dt := t.At(i, j)
			if dt < 0 || dt > cut {
				continue
			}
			if j < t.N {
				return Event{Time: dt, Kind: ParticleParticle, I: i, J: j}, nil
			}
			return Event{Time: dt, Kind: ParticleWall, I: i, J: j - t.N}, nil
		}
	}
	panic("Impossible.")
}
