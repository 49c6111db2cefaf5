package io

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phil-mansfield/gasdiff/geom"
)

// ConfigError is returned for malformed input files. Line is 0 when the
// error is not tied to a single line.
type ConfigError struct {
	File string
	Line int
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// Static holds the parameters of a single run.
type Static struct {
	N, MaxStep              int
	Radius, Mass, Velocity  float64
	MainWidth, MainHeight   float64
	MinorWidth, MinorHeight float64
}

// staticKeys lists the keys of a static file in the order they must appear.
var staticKeys = []string{
	"N", "MAXSTEP", "RADIUS", "MASS", "VELOCITY",
	"MAINWIDTH", "MAINHEIGHT", "MINORWIDTH", "MINORHEIGHT",
}

func (st *Static) ints() []*int { return []*int{&st.N, &st.MaxStep} }

func (st *Static) floats() []*float64 {
	return []*float64{
		&st.Radius, &st.Mass, &st.Velocity,
		&st.MainWidth, &st.MainHeight, &st.MinorWidth, &st.MinorHeight,
	}
}

// ReadStatic reads a static parameter file: one "KEY value" pair per line in
// a fixed order. Blank lines are ignored.
func ReadStatic(fname string) (*Static, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st := &Static{}
	ints, floats := st.ints(), st.floats()
	errorf := func(line int, format string, args ...interface{}) error {
		return &ConfigError{fname, line, fmt.Sprintf(format, args...)}
	}

	idx, line := 0, 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if idx == len(staticKeys) {
			return nil, errorf(line, "Unexpected line after %s.",
				staticKeys[len(staticKeys)-1])
		}

		key := staticKeys[idx]
		if len(tokens) != 2 {
			return nil, errorf(line, "Expected '%s <value>', but found %d tokens.",
				key, len(tokens))
		} else if !strings.EqualFold(tokens[0], key) {
			return nil, errorf(line, "Expected key %s, but found '%s'.",
				key, tokens[0])
		}

		if idx < len(ints) {
			*ints[idx], err = strconv.Atoi(tokens[1])
		} else {
			*floats[idx-len(ints)], err = strconv.ParseFloat(tokens[1], 64)
		}
		if err != nil {
			return nil, errorf(line, "Invalid value '%s' for %s.", tokens[1], key)
		}
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if idx < len(staticKeys) {
		return nil, errorf(0, "Missing value for %s.", staticKeys[idx])
	}
	if err := st.check(); err != nil {
		return nil, errorf(0, "%s", err.Error())
	}
	return st, nil
}

func (st *Static) check() error {
	switch {
	case st.N <= 0:
		return fmt.Errorf("N must be positive, but is %d.", st.N)
	case st.MaxStep < 0:
		return fmt.Errorf("MAXSTEP must be non-negative, but is %d.", st.MaxStep)
	case !(st.Radius > 0):
		return fmt.Errorf("RADIUS must be positive, but is %g.", st.Radius)
	case !(st.Mass > 0):
		return fmt.Errorf("MASS must be positive, but is %g.", st.Mass)
	case st.Velocity < 0:
		return fmt.Errorf("VELOCITY must be non-negative, but is %g.", st.Velocity)
	}
	return nil
}

// Chamber builds the chamber described by st. A negative offset centers the
// minor chamber.
func (st *Static) Chamber(offset float64) (*geom.Chamber, error) {
	c, err := geom.NewChamber(
		st.MainWidth, st.MainHeight, st.MinorWidth, st.MinorHeight, offset,
	)
	if err != nil {
		return nil, err
	}
	if err := c.CheckRadius(st.Radius); err != nil {
		return nil, err
	}
	return c, nil
}
