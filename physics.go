package gasdiff

import (
	"github.com/pkg/errors"

	"github.com/phil-mansfield/gasdiff/geom"
)

var (
	ErrNoEvent  = errors.New("no finite next event")
	ErrOverlap  = errors.New("particles overlap")
	ErrOutside  = errors.New("particle outside of chamber")
	ErrParticle = errors.New("invalid particle")
)

// Advance moves every particle in a straight line for a time dt.
func Advance(ps []Particle, dt float64) {
	for i := range ps {
		ps[i].Pos = ps[i].Pos.Add(ps[i].Vel.Scale(dt))
	}
}

// Resolve updates the velocities of the particles taking part in e. The
// particles must already be at the contact positions.
func Resolve(ps []Particle, c *geom.Chamber, e Event) {
	switch e.Kind {
	case ParticleWall:
		p := &ps[e.I]
		p.Vel = c.Segments[e.J].Reflect(p.Vel)
	case ParticleParticle:
		collide(&ps[e.I], &ps[e.J])
	default:
		panic("Impossible.")
	}
}

// collide applies the elastic impulse along the line of centers.
func collide(a, b *Particle) {
	dp := a.Pos.Sub(b.Pos)
	dist := dp.Norm()
	if dist == 0 {
		return
	}
	n := dp.Scale(1 / dist)

	j := 2 * a.Mass * b.Mass * a.Vel.Sub(b.Vel).Dot(n) / (a.Mass + b.Mass)
	a.Vel = a.Vel.Sub(n.Scale(j / a.Mass))
	b.Vel = b.Vel.Add(n.Scale(j / b.Mass))
}

// Validate checks that ps is a legal starting state in c: positive radii and
// masses, every disc inside the chamber and no two discs overlapping.
func Validate(ps []Particle, c *geom.Chamber) error {
	for i := range ps {
		p := &ps[i]
		if !(p.Mass > 0) {
			return errors.Wrapf(ErrParticle, "particle %d has mass %g", i, p.Mass)
		}
		if err := c.CheckRadius(p.Radius); err != nil {
			return errors.Wrapf(ErrParticle, "particle %d: %s", i, err)
		}
		if !c.Contains(p.Pos, p.Radius) {
			return errors.Wrapf(
				ErrOutside, "particle %d at (%g, %g) with radius %g",
				i, p.Pos[0], p.Pos[1], p.Radius,
			)
		}
	}

	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			sigma := ps[i].Radius + ps[j].Radius
			if ps[i].Pos.Sub(ps[j].Pos).Norm2() < sigma*sigma {
				return errors.Wrapf(ErrOverlap, "particles %d and %d", i, j)
			}
		}
	}
	return nil
}
