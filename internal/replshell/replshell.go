// Package replshell implements cmd/planner -i's interactive stepping mode:
// a line-oriented shell for walking the planning graph one command at a
// time (expand a level, inspect it, attempt extraction) instead of running
// straight to a fixpoint. It is ambient tooling, not part of the core
// algorithm (spec §6 names only the batch CLI contract); its existence is
// grounded on the teacher's chzyer/readline wrapper,
// internal/input.InteractiveCommandReader, generalized from a
// single-prompt command reader into a small dispatch loop the way the
// teacher's own cmd/tqi/main.go drives InteractiveCommandReader in a loop.
package replshell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rocketplan/internal/graphplan"
)

// Shell drives one interactive stepping session over a single Planner.
type Shell struct {
	domain  *graphplan.Domain
	planner *graphplan.Planner
	out     io.Writer
}

// New builds a Shell ready to Run against domain/planner. out receives all
// shell output (prompts aside, which readline itself writes to stdout).
func New(domain *graphplan.Domain, planner *graphplan.Planner, out io.Writer) *Shell {
	return &Shell{domain: domain, planner: planner, out: out}
}

// Run starts the readline loop and dispatches commands until the user
// types "quit" or sends EOF (Ctrl-D); an interrupt (Ctrl-C) discards the
// current line and the loop keeps reading. It returns the
// extracted plan if the user successfully ran "goal" to completion, or nil
// if the session ended without one.
func (s *Shell) Run() (graphplan.LayeredPlan, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "graphplan> "})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(s.out, "interactive stepping mode. commands: expand, show [k], goal, quit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		plan, done, err := s.dispatch(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		if done {
			return plan, nil
		}
	}
}

// dispatch runs one command line. done is true once the session should
// end (either "quit" or a successful "goal").
func (s *Shell) dispatch(line string) (plan graphplan.LayeredPlan, done bool, err error) {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "quit", "exit":
		return nil, true, nil

	case "expand":
		return nil, false, s.cmdExpand()

	case "show":
		return nil, false, s.cmdShow(args)

	case "goal":
		p, ok, gerr := s.cmdGoal()
		if gerr != nil {
			return nil, false, gerr
		}
		if !ok {
			fmt.Fprintln(s.out, "goal not yet reachable at top level; try expand")
			return nil, false, nil
		}
		fmt.Fprintln(s.out, "plan extracted:")
		s.printPlan(p)
		return p, true, nil

	default:
		return nil, false, fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *Shell) cmdExpand() error {
	top := s.planner.TopLevel()
	if err := s.planner.ExpandOnce(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "built level %d\n", top+1)
	return nil
}

func (s *Shell) cmdShow(args []string) error {
	k := s.planner.TopLevel()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("show: %q is not a level number", args[0])
		}
		k = n
	}

	layer := s.planner.Layer(k)
	if layer == nil {
		return fmt.Errorf("level %d has not been built", k)
	}

	fmt.Fprintf(s.out, "level %d: %d propositions, %d actions, %d mutex props, %d mutex actions\n",
		layer.Level, layer.Propositions.Len(), layer.Actions.Len(),
		layer.MutexPropositions.Len(), layer.MutexActions.Len())
	return nil
}

func (s *Shell) cmdGoal() (graphplan.LayeredPlan, bool, error) {
	plan, err := s.planner.Plan(s.domain.Goal)
	if err != nil {
		return nil, false, err
	}
	return plan, true, nil
}

func (s *Shell) printPlan(plan graphplan.LayeredPlan) {
	elided := s.domain.Elide(plan)
	for i, level := range elided {
		fmt.Fprintf(s.out, "  %d: %v\n", i+1, s.domain.StringLevel(level))
	}
}
