package io

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/gasdiff"
	"github.com/phil-mansfield/gasdiff/geom"
)

// ReadDynamic reads the initial particle states from a file with one
// "x y vx vy" line per particle. Radius and mass come from st.
func ReadDynamic(fname string, st *Static) ([]gasdiff.Particle, error) {
	if err := checkDynamic(fname); err != nil {
		return nil, err
	}
	cols, err := table.ReadTable(fname, []int{0, 1, 2, 3}, nil)
	if err != nil {
		return nil, &ConfigError{File: fname, Msg: err.Error()}
	}

	xs, ys, vxs, vys := cols[0], cols[1], cols[2], cols[3]
	if len(xs) != st.N {
		return nil, &ConfigError{File: fname, Msg: fmt.Sprintf(
			"Static file gives N = %d, but found %d particles.", st.N, len(xs),
		)}
	}

	ps := make([]gasdiff.Particle, len(xs))
	for i := range ps {
		ps[i] = gasdiff.Particle{
			Pos:    geom.Vec{xs[i], ys[i]},
			Vel:    geom.Vec{vxs[i], vys[i]},
			Radius: st.Radius,
			Mass:   st.Mass,
		}
	}
	return ps, nil
}

// checkDynamic makes sure that every non-blank, non-comment line of fname
// holds exactly four numbers. ReadTable only looks at the columns it is
// asked for.
func checkDynamic(fname string) error {
	f, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	line := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		tokens := strings.Fields(text)
		if len(tokens) != 4 {
			return &ConfigError{fname, line, fmt.Sprintf(
				"Expected 'x y vx vy', but found %d tokens.", len(tokens),
			)}
		}
		for _, tok := range tokens {
			if _, err := strconv.ParseFloat(tok, 64); err != nil {
				return &ConfigError{fname, line, fmt.Sprintf(
					"Invalid number '%s'.", tok,
				)}
			}
		}
	}
	return scanner.Err()
}

// WriteDynamic writes ps in the format read by ReadDynamic.
func WriteDynamic(fname string, ps []gasdiff.Particle) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	var buf []byte
	for i := range ps {
		buf = appendParticle(buf[:0], &ps[i])
		if _, err := w.Write(buf); err != nil {
			f.Close()
			return errors.Wrapf(err, "writing '%s'", fname)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing '%s'", fname)
	}
	return f.Close()
}

func appendParticle(buf []byte, p *gasdiff.Particle) []byte {
	vals := [4]float64{p.Pos[0], p.Pos[1], p.Vel[0], p.Vel[1]}
	for i, v := range vals {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, '\n')
}

// maxAttempts bounds the number of random placements Generate tries per
// particle.
const maxAttempts = 10000

// Generate places st.N non-overlapping particles uniformly in the main
// chamber of c, moving with speed st.Velocity in uniformly random directions.
func Generate(
	st *Static, c *geom.Chamber, rng *rand.Rand,
) ([]gasdiff.Particle, error) {
	r := st.Radius
	if err := c.CheckRadius(r); err != nil {
		return nil, err
	}
	ps := make([]gasdiff.Particle, 0, st.N)

	for len(ps) < st.N {
		placed := false
		for attempt := 0; attempt < maxAttempts && !placed; attempt++ {
			pos := geom.Vec{
				r + (c.MainWidth-2*r)*rng.Float64(),
				r + (c.MainHeight-2*r)*rng.Float64(),
			}
			if overlaps(ps, pos, r) {
				continue
			}

			theta := 2 * math.Pi * rng.Float64()
			vel := geom.Vec{math.Cos(theta), math.Sin(theta)}.Scale(st.Velocity)
			ps = append(ps, gasdiff.Particle{
				Pos: pos, Vel: vel, Radius: r, Mass: st.Mass,
			})
			placed = true
		}
		if !placed {
			return nil, fmt.Errorf(
				"Could only place %d of %d particles of radius %g.",
				len(ps), st.N, r,
			)
		}
	}

	if err := gasdiff.Validate(ps, c); err != nil {
		return nil, err
	}
	return ps, nil
}

func overlaps(ps []gasdiff.Particle, pos geom.Vec, r float64) bool {
	for i := range ps {
		sigma := ps[i].Radius + r
		if ps[i].Pos.Sub(pos).Norm2() < sigma*sigma {
			return true
		}
	}
	return false
}
