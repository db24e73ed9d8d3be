// Package factfile parses the planner's problem-file format (spec §6): a
// text file of three blank-line-delimited blocks, OBJECTS, INIT, and GOAL,
// each holding "( head arg1 arg2 ... )" lines. This is the external
// collaborator spec.md describes only at its interface; its contract is
// "deliver a parsed problem (objects, initial state, goal) into the
// planner". It is not in scope for the core spec but is carried here as
// ambient surface a complete repository needs (SPEC_FULL.md).
package factfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/rocketplan/internal/graphplan"
	"github.com/dekarrin/rocketplan/internal/planerrors"
)

type blockKind int

const (
	blockNone blockKind = iota
	blockObjects
	blockInit
	blockGoal
)

var blockHeaders = map[string]blockKind{
	"OBJECTS": blockObjects,
	"INIT":    blockInit,
	"GOAL":    blockGoal,
}

// Parse reads a problem file and returns the parsed problem (spec §6). The
// block order (OBJECTS, INIT, GOAL) is fixed; each inner line is of the
// form "( head arg1 arg2 ... )". Parentheses are stripped; tokens are
// case-sensitive identifiers.
func Parse(r io.Reader) (graphplan.Problem, error) {
	var problem graphplan.Problem
	var current blockKind
	var sawObjects, sawInit, sawGoal bool

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if line == "" {
			current = blockNone
			continue
		}

		if kind, ok := blockHeaders[line]; ok {
			if err := checkBlockOrder(kind, sawObjects, sawInit, sawGoal, lineNum); err != nil {
				return graphplan.Problem{}, err
			}
			switch kind {
			case blockObjects:
				sawObjects = true
			case blockInit:
				sawInit = true
			case blockGoal:
				sawGoal = true
			}
			current = kind
			continue
		}

		tokens, err := tokenizeLine(raw, lineNum)
		if err != nil {
			return graphplan.Problem{}, err
		}

		switch current {
		case blockObjects:
			if err := addObject(&problem, tokens, lineNum); err != nil {
				return graphplan.Problem{}, err
			}
		case blockInit:
			problem.Init = append(problem.Init, graphplan.Prop(tokens[0], tokens[1:]...))
		case blockGoal:
			problem.Goal = append(problem.Goal, graphplan.Prop(tokens[0], tokens[1:]...))
		default:
			return graphplan.Problem{}, planerrors.ParseError("line %d: fact line outside of any OBJECTS/INIT/GOAL block", lineNum)
		}
	}

	if err := scanner.Err(); err != nil {
		return graphplan.Problem{}, planerrors.WrapParseError(err, "cannot read problem file")
	}
	if !sawObjects || !sawInit || !sawGoal {
		return graphplan.Problem{}, planerrors.ParseError("problem file must contain OBJECTS, INIT, and GOAL blocks in that order")
	}

	return problem, nil
}

// checkBlockOrder enforces the fixed OBJECTS, INIT, GOAL ordering.
func checkBlockOrder(kind blockKind, sawObjects, sawInit, sawGoal bool, lineNum int) error {
	switch kind {
	case blockObjects:
		if sawObjects {
			return planerrors.ParseError("line %d: duplicate OBJECTS block", lineNum)
		}
	case blockInit:
		if !sawObjects {
			return planerrors.ParseError("line %d: INIT block must follow OBJECTS", lineNum)
		}
		if sawInit {
			return planerrors.ParseError("line %d: duplicate INIT block", lineNum)
		}
	case blockGoal:
		if !sawInit {
			return planerrors.ParseError("line %d: GOAL block must follow INIT", lineNum)
		}
		if sawGoal {
			return planerrors.ParseError("line %d: duplicate GOAL block", lineNum)
		}
	}
	return nil
}

// tokenizeLine strips the surrounding parentheses from "( head arg1 ... )"
// and splits on whitespace.
func tokenizeLine(raw string, lineNum int) ([]string, error) {
	line := strings.TrimSpace(raw)
	if !strings.HasPrefix(line, "(") || !strings.HasSuffix(line, ")") {
		return nil, planerrors.ParseError("line %d: expected a parenthesized fact, got %q", lineNum, raw)
	}
	line = strings.TrimSuffix(strings.TrimPrefix(line, "("), ")")
	tokens := strings.Fields(line)
	if len(tokens) < 1 {
		return nil, planerrors.ParseError("line %d: empty fact", lineNum)
	}
	return tokens, nil
}

// addObject assigns a "( name KIND )" OBJECTS line to the right list.
func addObject(problem *graphplan.Problem, tokens []string, lineNum int) error {
	if len(tokens) != 2 {
		return planerrors.ParseError("line %d: object declarations must be \"( name KIND )\"", lineNum)
	}
	name, kind := tokens[0], tokens[1]
	switch kind {
	case "CARGO":
		problem.Cargos = append(problem.Cargos, name)
	case "ROCKET":
		problem.Rockets = append(problem.Rockets, name)
	case "PLACE":
		problem.Places = append(problem.Places, name)
	default:
		return planerrors.ParseError("line %d: unknown object kind %q (want CARGO, ROCKET, or PLACE)", lineNum, kind)
	}
	return nil
}

// FormatError wraps err with context identifying it as a problem-file parse
// failure, for callers (the CLI, plannerd) that want a single place to
// decide presentation.
func FormatError(err error) string {
	return fmt.Sprintf("problem file error: %v", err)
}
