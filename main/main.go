// Command main runs gas diffusion parameter sweeps.
//
// Usage
//
//	main run sweep.cfg
//	main generate --static static.txt --out dynamic.txt --seed 3
//	main example-config sweep
//
// A sweep file lists the runs to perform (see example-config sweep). Each
// run reads a static parameter file and a dynamic particle file, appends a
// snapshot of every step to <Output>/output_<Input>.txt and finally appends
// a [[run]] table to the summary file.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/phil-mansfield/gasdiff"
	"github.com/phil-mansfield/gasdiff/io"
)

type Globals struct {
	LogFile     string `help:"Location to write log statements to. Default is stderr."`
	ProfileFile string `help:"Location to write a CPU profile to. Default is no profiling."`
	Debug       bool   `help:"Log every resolved event."`
}

type CLI struct {
	Globals

	Run           RunCmd           `cmd:"" help:"Run every simulation in a sweep file."`
	Generate      GenerateCmd      `cmd:"" help:"Write random initial conditions for a static file."`
	ExampleConfig ExampleConfigCmd `cmd:"" help:"Print an example configuration file."`
}

// FileGroup holds the files which need to be closed when a command ends.
type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.prof != nil {
		pprof.StopCPUProfile()
		if err := fg.prof.Close(); err != nil {
			log.Error("Could not close profile", "err", err)
		}
	}
	if fg.log != nil {
		if err := fg.log.Close(); err != nil {
			log.Error("Could not close log", "err", err)
		}
	}
}

// setup creates the logger and starts profiling. Values in the sweep file
// are used when the corresponding flag isn't set.
func (g *Globals) setup(logFile, profFile string) (*log.Logger, *FileGroup, error) {
	if g.LogFile != "" {
		logFile = g.LogFile
	}
	if g.ProfileFile != "" {
		profFile = g.ProfileFile
	}

	fg := &FileGroup{}
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return nil, nil, err
		}
		fg.log = f
		logger.SetOutput(f)
	}
	if g.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	if profFile != "" {
		f, err := os.Create(profFile)
		if err != nil {
			fg.Close()
			return nil, nil, err
		}
		fg.prof = f
		if err := pprof.StartCPUProfile(f); err != nil {
			fg.Close()
			return nil, nil, err
		}
	}
	return logger, fg, nil
}

type RunCmd struct {
	Config string `arg:"" type:"existingfile" help:"Sweep configuration file."`
}

func (cmd *RunCmd) Run(g *Globals) error {
	con, err := io.ReadSweepConfig(cmd.Config)
	if err != nil {
		return err
	}

	logFile, profFile := "", ""
	if con.ValidLogFile() {
		logFile = con.LogFile
	}
	if con.ValidProfileFile() {
		profFile = con.ProfileFile
	}
	logger, fg, err := g.setup(logFile, profFile)
	if err != nil {
		return err
	}
	defer fg.Close()

	if err := os.MkdirAll(con.Output, 0777); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, input := range con.Input {
		if err := runOne(ctx, con, input, logger.With("input", input)); err != nil {
			return fmt.Errorf("Run '%s': %w", input, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// runOne performs the simulation for a single sweep input. Errors in the
// input files abort before the first step.
func runOne(
	ctx context.Context, con *io.SweepConfig, input string, logger *log.Logger,
) error {
	st, err := io.ReadStatic(con.StaticFile(input))
	if err != nil {
		return err
	}
	chamber, err := st.Chamber(con.ApertureOffset)
	if err != nil {
		return err
	}
	ps, err := io.ReadDynamic(con.DynamicFile(input), st)
	if err != nil {
		return err
	}

	maxStep := st.MaxStep
	if con.MaxStep >= 0 {
		maxStep = con.MaxStep
	}
	sim, err := gasdiff.NewSimulation(ps, chamber, maxStep)
	if err != nil {
		return err
	}

	sw, err := io.NewSnapshotWriter(con.OutputFile(input), con.Buffer)
	if err != nil {
		return err
	}
	sim.Writer = sw
	sim.Logger = logger

	sum, runErr := sim.Run(ctx)
	if err := sw.Close(); err != nil {
		sum.WriteErrors++
		logger.Error("Could not finish snapshot file", "err", err)
	}

	rec := io.NewRunRecord(input, sum)
	if err := io.AppendSummary(con.SummaryPath(), rec); err != nil {
		logger.Error("Could not write summary", "err", err)
	}
	return runErr
}

type GenerateCmd struct {
	Static string  `required:"" type:"existingfile" help:"Static parameter file."`
	Out    string  `required:"" help:"Dynamic particle file to create."`
	Seed   int64   `default:"0" help:"Random seed."`
	Offset float64 `default:"-1" help:"Offset of the minor chamber. Negative values center it."`
}

func (cmd *GenerateCmd) Run(g *Globals) error {
	logger, fg, err := g.setup("", "")
	if err != nil {
		return err
	}
	defer fg.Close()

	st, err := io.ReadStatic(cmd.Static)
	if err != nil {
		return err
	}
	chamber, err := st.Chamber(cmd.Offset)
	if err != nil {
		return err
	}

	ps, err := io.Generate(st, chamber, rand.New(rand.NewSource(cmd.Seed)))
	if err != nil {
		return err
	}
	if err := io.WriteDynamic(cmd.Out, ps); err != nil {
		return err
	}
	logger.Info("Generated particles", "n", len(ps), "out", cmd.Out,
		"energy", gasdiff.KineticEnergy(ps))
	return nil
}

type ExampleConfigCmd struct {
	Type string `arg:"" enum:"sweep,static" help:"One of 'sweep' or 'static'."`
}

func (cmd *ExampleConfigCmd) Run() error {
	switch cmd.Type {
	case "sweep":
		os.Stdout.WriteString(io.ExampleSweepFile + "\n")
	case "static":
		os.Stdout.WriteString(io.ExampleStaticFile + "\n")
	default:
		panic("Impossible")
	}
	return nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("gasdiff"),
		kong.Description("Event-driven simulation of a gas diffusing between two chambers."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		log.Fatal(err.Error())
	}
}
