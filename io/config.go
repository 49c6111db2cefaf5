package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/gcfg.v1"
)

const (
	ExampleSweepFile = `[Sweep]

#######################
# Required Parameters #
#######################

# Every Input value names one run. The value is substituted into
# StaticFormat and DynamicFormat to find that run's input files and is used
# to name its output file, <Output>/output_<Input>.txt. Inputs are usually
# the height of the minor chamber.
Input = 0.03
Input = 0.05
Input = 0.07
Input = 0.09

# printf formats with a single %s verb.
StaticFormat  = txt/static_%s.txt
DynamicFormat = txt/dynamic_%s.txt

# Directory which snapshot files will be appended to.
Output = path/to/output/dir

#######################
# Optional Parameters #
#######################

# Run summaries are appended to this TOML file inside Output.
# SummaryFile = summary.toml

# Distance between the bottom of the main chamber and the bottom of the
# minor chamber. By default the minor chamber is centered.
# ApertureOffset = 0.0

# Overrides the MAXSTEP value of every static file.
# MaxStep = 1000

# Number of snapshots which can wait to be written before the simulation
# blocks.
# Buffer = 64

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

	ExampleStaticFile = `N 100
MAXSTEP 1000
RADIUS 0.0015
MASS 1
VELOCITY 0.01
MAINWIDTH 0.09
MAINHEIGHT 0.09
MINORWIDTH 0.09
MINORHEIGHT 0.03`
)

// SweepConfig describes a set of runs which share their output settings.
type SweepConfig struct {
	// Required
	Input                       []string
	StaticFormat, DynamicFormat string
	Output                      string

	// Optional
	SummaryFile          string
	ApertureOffset       float64
	MaxStep              int
	Buffer               int
	LogFile, ProfileFile string
}

type SweepWrapper struct {
	Sweep SweepConfig
}

func DefaultSweepWrapper() *SweepWrapper {
	con := SweepConfig{}
	con.SummaryFile = "summary.toml"
	con.ApertureOffset = -1
	con.MaxStep = -1
	con.Buffer = 64
	return &SweepWrapper{con}
}

func (con *SweepConfig) ValidInput() bool {
	if len(con.Input) == 0 {
		return false
	}
	for _, in := range con.Input {
		if strings.TrimSpace(in) == "" {
			return false
		}
	}
	return true
}
func (con *SweepConfig) ValidStaticFormat() bool {
	return strings.Count(con.StaticFormat, "%s") == 1
}
func (con *SweepConfig) ValidDynamicFormat() bool {
	return strings.Count(con.DynamicFormat, "%s") == 1
}
func (con *SweepConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SweepConfig) ValidSummaryFile() bool {
	return con.SummaryFile != ""
}
func (con *SweepConfig) ValidBuffer() bool {
	return con.Buffer > 0
}
func (con *SweepConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SweepConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

// CheckInit returns an error describing the first invalid required value.
func (con *SweepConfig) CheckInit() error {
	switch {
	case !con.ValidInput():
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	case !con.ValidStaticFormat():
		return fmt.Errorf(
			"'StaticFormat' must contain exactly one %%s verb, but is '%s'.",
			con.StaticFormat,
		)
	case !con.ValidDynamicFormat():
		return fmt.Errorf(
			"'DynamicFormat' must contain exactly one %%s verb, but is '%s'.",
			con.DynamicFormat,
		)
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidSummaryFile():
		return fmt.Errorf("Invalid 'SummaryFile' value.")
	case !con.ValidBuffer():
		return fmt.Errorf("'Buffer' must be positive, but is %d.", con.Buffer)
	}
	return nil
}

func (con *SweepConfig) StaticFile(input string) string {
	return fmt.Sprintf(con.StaticFormat, input)
}

func (con *SweepConfig) DynamicFile(input string) string {
	return fmt.Sprintf(con.DynamicFormat, input)
}

func (con *SweepConfig) OutputFile(input string) string {
	return filepath.Join(con.Output, fmt.Sprintf("output_%s.txt", input))
}

func (con *SweepConfig) SummaryPath() string {
	return filepath.Join(con.Output, con.SummaryFile)
}

// ReadSweepConfig reads and checks the [Sweep] section of fname.
func ReadSweepConfig(fname string) (*SweepConfig, error) {
	wrap := DefaultSweepWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.Sweep.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Sweep, nil
}
