package gasdiff

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/gasdiff/geom"
)

// State is the life cycle stage of a Simulation.
type State int

const (
	Idle State = iota
	Running
	Stepping
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Stepping:
		return "Stepping"
	case Finished:
		return "Finished"
	}
	return "State(?)"
}

// SnapshotWriter receives the particles after every step. The slice belongs
// to the writer once Write is called.
type SnapshotWriter interface {
	Write(step int, ps []Particle) error
}

// Summary describes a finished run. ElapsedTime is wall clock time and only
// useful for diagnostics.
type Summary struct {
	N                  int
	Steps              int
	ElapsedTime        time.Duration
	SimulatedTime      float64
	ParticleCollisions int
	WallCollisions     int
	WriteErrors        int
	// MinorFraction is the fraction of particles in the minor chamber at the
	// end of the run.
	MinorFraction float64
}

// Simulation steps a set of particles through a chamber. It is not safe for
// concurrent use.
type Simulation struct {
	Particles []Particle
	Chamber   *geom.Chamber
	MaxStep   int

	// Optional.
	Writer SnapshotWriter
	Logger *log.Logger

	state   State
	step    int
	clock   float64
	table   *Table
	summary Summary
}

// NewSimulation validates the initial state and returns an Idle simulation.
// ps is modified in place as the simulation runs.
func NewSimulation(
	ps []Particle, c *geom.Chamber, maxStep int,
) (*Simulation, error) {
	if maxStep < 0 {
		return nil, errors.Errorf("MaxStep must be non-negative, but is %d.", maxStep)
	}
	if err := Validate(ps, c); err != nil {
		return nil, err
	}

	return &Simulation{
		Particles: ps,
		Chamber:   c,
		MaxStep:   maxStep,
		table:     NewTable(len(ps)),
		summary:   Summary{N: len(ps)},
	}, nil
}

func (s *Simulation) logger() *log.Logger {
	if s.Logger == nil {
		s.Logger = log.New(io.Discard)
	}
	return s.Logger
}

// State returns the current life cycle stage.
func (s *Simulation) State() State { return s.state }

// StepCount returns the number of completed steps.
func (s *Simulation) StepCount() int { return s.step }

// Clock returns the elapsed simulated time.
func (s *Simulation) Clock() float64 { return s.clock }

// Step performs exactly one predict, select, advance and resolve cycle and
// returns the event that was resolved. On error the particles are untouched.
func (s *Simulation) Step() (Event, error) {
	switch s.state {
	case Finished:
		return Event{}, errors.New("Simulation has already finished.")
	case Idle:
		s.state = Running
	}
	s.state = Stepping

	s.table.Predict(s.Particles, s.Chamber)
	e, err := s.table.Next()
	if err != nil {
		return e, errors.Wrapf(err, "step %d at t = %g", s.step+1, s.clock)
	}

	Advance(s.Particles, e.Time)
	s.clock += e.Time
	Resolve(s.Particles, s.Chamber, e)

	s.step++
	switch e.Kind {
	case ParticleParticle:
		s.summary.ParticleCollisions++
	case ParticleWall:
		s.summary.WallCollisions++
	}

	s.logger().Debug("Resolved event", "step", s.step, "t", s.clock,
		"kind", e.Kind, "i", e.I, "j", e.J, "dt", e.Time)
	return e, nil
}

func (s *Simulation) write() {
	if s.Writer == nil {
		return
	}
	snap := make([]Particle, len(s.Particles))
	copy(snap, s.Particles)
	if err := s.Writer.Write(s.step, snap); err != nil {
		s.summary.WriteErrors++
		s.logger().Warn("Could not write snapshot", "step", s.step, "err", err)
	}
}

// Run writes the initial state as step 0 and then steps until MaxStep is
// reached. ctx is only checked between steps. A cancelled run still
// finishes and returns its summary along with ctx's error.
func (s *Simulation) Run(ctx context.Context) (*Summary, error) {
	if s.state != Idle {
		return nil, errors.Errorf("Cannot run a simulation in state %s.", s.state)
	}
	s.state = Running

	logger := s.logger()
	logger.Info("Starting run", "particles", len(s.Particles),
		"max_step", s.MaxStep, "energy", KineticEnergy(s.Particles))

	s.write()

	var err error
	for s.step < s.MaxStep {
		if err = ctx.Err(); err != nil {
			logger.Warn("Run stopped early", "step", s.step, "err", err)
			break
		}
		start := time.Now()
		_, err = s.Step()
		s.summary.ElapsedTime += time.Since(start)
		if err != nil {
			break
		}
		s.write()
	}

	s.state = Finished
	s.summary.Steps = s.step
	s.summary.SimulatedTime = s.clock
	s.summary.MinorFraction = s.minorFraction()

	p := Momentum(s.Particles)
	logger.Info("Finished run", "steps", s.step, "t", s.clock,
		"elapsed", s.summary.ElapsedTime, "energy", KineticEnergy(s.Particles),
		"px", p[0], "py", p[1], "minor_fraction", s.summary.MinorFraction)

	sum := s.summary
	return &sum, err
}

func (s *Simulation) minorFraction() float64 {
	if len(s.Particles) == 0 {
		return 0
	}
	n := 0
	for i := range s.Particles {
		if s.Chamber.InMinor(s.Particles[i].Pos) {
			n++
		}
	}
	return float64(n) / float64(len(s.Particles))
}
