package io

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/gasdiff"
)

// RunRecord is one entry of a summary file.
type RunRecord struct {
	Input   string `toml:"input"`
	N       int    `toml:"N"`
	MaxStep int    `toml:"MAXSTEP"`
	// Wall clock milliseconds spent stepping. Not reproducible.
	ElapsedTime int64 `toml:"ELAPSEDTIME"`

	SimulatedTime      float64 `toml:"simulated_time"`
	ParticleCollisions int     `toml:"particle_collisions"`
	WallCollisions     int     `toml:"wall_collisions"`
	WriteErrors        int     `toml:"write_errors"`
	MinorFraction      float64 `toml:"minor_fraction"`
}

type summaryFile struct {
	Run []RunRecord `toml:"run"`
}

// NewRunRecord converts the summary of the run named input.
func NewRunRecord(input string, sum *gasdiff.Summary) RunRecord {
	return RunRecord{
		Input:              input,
		N:                  sum.N,
		MaxStep:            sum.Steps,
		ElapsedTime:        sum.ElapsedTime.Milliseconds(),
		SimulatedTime:      sum.SimulatedTime,
		ParticleCollisions: sum.ParticleCollisions,
		WallCollisions:     sum.WallCollisions,
		WriteErrors:        sum.WriteErrors,
		MinorFraction:      sum.MinorFraction,
	}
}

// AppendSummary appends rec to fname as a [[run]] table.
func AppendSummary(fname string, rec RunRecord) error {
	f, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	enc := toml.NewEncoder(f)
	if err := enc.Encode(summaryFile{[]RunRecord{rec}}); err != nil {
		f.Close()
		return errors.Wrapf(err, "appending to '%s'", fname)
	}
	if _, err := f.WriteString("\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSummary returns every record in fname.
func ReadSummary(fname string) ([]RunRecord, error) {
	sf := summaryFile{}
	if _, err := toml.DecodeFile(fname, &sf); err != nil {
		return nil, errors.Wrapf(err, "reading '%s'", fname)
	}
	return sf.Run, nil
}
