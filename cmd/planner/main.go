/*
Planner solves a Rocket-logistics planning problem with the Graphplan
algorithm.

It reads a problem file describing the domain's cargos, rockets, places,
initial state, and goal, builds the planning graph to a fixpoint, and
prints the extracted layered plan.

Usage:

	planner [flags] <problem-file>

The flags are:

	-v, --version
		Give the current version of the planner and then exit.

	-i, --interactive
		Step through graph expansion and extraction manually instead of
		running straight to a fixpoint.

	-m, --max-level N
		Cap planning-graph expansion at level N. Takes precedence over
		the PLANNER_MAX_LEVEL environment variable when N > 0.

	-t, --trace FILE
		Write a diagnostic trace of the run to FILE.

Exit codes: 0 if a plan was printed, 1 if the problem is provably
unsolvable, 2 on a malformed problem file, 3 if expansion exceeded the
level cap.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/rocketplan/internal/factfile"
	"github.com/dekarrin/rocketplan/internal/graphplan"
	"github.com/dekarrin/rocketplan/internal/planconfig"
	"github.com/dekarrin/rocketplan/internal/planerrors"
	"github.com/dekarrin/rocketplan/internal/replshell"
	"github.com/dekarrin/rocketplan/internal/trace"
	"github.com/dekarrin/rocketplan/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a plan was found and printed.
	ExitSuccess = iota

	// ExitUnsolvable indicates the problem is provably unsolvable.
	ExitUnsolvable

	// ExitParseError indicates the problem file was malformed.
	ExitParseError

	// ExitLevelCapExceeded indicates expansion exceeded the level cap
	// before a plan or fixpoint was found.
	ExitLevelCapExceeded
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	interactive *bool   = pflag.BoolP("interactive", "i", false, "Step through the planning graph manually")
	maxLevel    *int    = pflag.IntP("max-level", "m", 0, "Cap planning-graph expansion at this level (0 means uncapped)")
	tracePath   *string = pflag.StringP("trace", "t", "", "Write a diagnostic trace of the run to this file")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing required problem-file argument")
		returnCode = ExitParseError
		return
	}

	cfg, err := planconfig.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
		return
	}

	level := cfg.Planner.MaxLevel
	if *maxLevel > 0 {
		level = *maxLevel
	}

	problemPath := pflag.Arg(0)
	f, err := os.Open(problemPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot open problem file: %s\n", err.Error())
		returnCode = ExitParseError
		return
	}
	defer f.Close()

	problem, err := factfile.Parse(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, factfile.FormatError(err))
		returnCode = ExitParseError
		return
	}

	path := *tracePath
	if path == "" {
		path = cfg.Planner.TracePath
	}

	domain, planner := graphplan.NewProblemPlanner(problem, level)

	var emitter *trace.Emitter
	if path != "" {
		emitter = trace.New(os.Stderr)
		planner.OnExpand = emitter.OnExpand
	}

	var plan graphplan.LayeredPlan
	if *interactive {
		plan, err = replshell.New(domain, planner, os.Stdout).Run()
	} else {
		plan, err = planner.Plan(domain.Goal)
	}

	if emitter != nil {
		traceFile, ferr := os.Create(path)
		if ferr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: cannot write trace file: %s\n", ferr.Error())
		} else {
			defer traceFile.Close()
			_ = emitter.WriteTrace(traceFile, domain, plan, err)
		}
	}

	if err != nil {
		returnCode = exitCodeFor(err)
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return
	}

	if plan == nil {
		// interactive session ended (EOF/quit) without extracting a plan.
		return
	}

	printPlan(domain, plan)
}

// exitCodeFor maps the planner's error taxonomy (spec §7) to the CLI's
// documented exit codes.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *planerrors.UnsolvableErr:
		return ExitUnsolvable
	case *planerrors.LevelCapExceededErr:
		return ExitLevelCapExceeded
	default:
		return ExitParseError
	}
}

// printPlan writes one line per level, NOOPs elided, as required by spec
// §6's CLI contract.
func printPlan(d *graphplan.Domain, plan graphplan.LayeredPlan) {
	elided := d.Elide(plan)
	for i, level := range elided {
		fmt.Printf("%d: %v\n", i+1, d.StringLevel(level))
	}
}
