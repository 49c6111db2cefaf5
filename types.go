/*package gasdiff is an event-driven hard disc simulation of a gas diffusing
from one rectangular chamber into another through an aperture.

Every step predicts the time of every possible collision, jumps all particles
forward to the earliest one and resolves it elastically.
*/
package gasdiff

import (
	"github.com/phil-mansfield/gasdiff/geom"
)

// Particle is a hard disc. Particles are identified by their index in the
// slice handed to a Simulation.
type Particle struct {
	Pos, Vel     geom.Vec
	Radius, Mass float64
}

// KineticEnergy returns m v^2 / 2.
func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Vel.Norm2()
}

// Momentum returns m v.
func (p *Particle) Momentum() geom.Vec { return p.Vel.Scale(p.Mass) }

// KineticEnergy returns the total kinetic energy of ps.
func KineticEnergy(ps []Particle) float64 {
	sum := 0.0
	for i := range ps {
		sum += ps[i].KineticEnergy()
	}
	return sum
}

// Momentum returns the total momentum of ps.
func Momentum(ps []Particle) geom.Vec {
	var sum geom.Vec
	for i := range ps {
		sum = sum.Add(ps[i].Momentum())
	}
	return sum
}

// Kind distinguishes the two types of collision.
type Kind int

const (
	ParticleParticle Kind = iota
	ParticleWall
)

func (k Kind) String() string {
	switch k {
	case ParticleParticle:
		return "particle-particle"
	case ParticleWall:
		return "particle-wall"
	}
	return "Kind(?)"
}

// Event is a predicted collision. I is always a particle index. For
// ParticleParticle events J is the second particle and I < J; for
// ParticleWall events J is a geom segment index.
type Event struct {
	Time float64
	Kind Kind
	I, J int
}
