// Package planerrors defines the error taxonomy of the planner core (spec
// §7): ParseError, UnsolvableAtLevel, Unsolvable, LevelCapExceeded, and
// DomainAssertion. Each is an exported struct type implementing error, with
// an exported constructor, following the shape of the teacher's
// internal/tqerrors package. ParseErr additionally has a wrap-constructor,
// a short human-facing Summary() next to the technical Error() message,
// and an Unwrap() for the wrapped cause; the other types have Error() only.
package planerrors

import "fmt"

// ParseErr is returned when a problem file is malformed (spec §6, §7). The
// CLI surfaces it and exits 2.
type ParseErr struct {
	msg     string
	summary string
	wrap    error
}

func (e *ParseErr) Error() string { return e.msg }

// Summary gives a short, human-facing description of the error, separate
// from the more technical Error() message.
func (e *ParseErr) Summary() string { return e.summary }

func (e *ParseErr) Unwrap() error { return e.wrap }

// ParseError builds a ParseErr with a technical message.
func ParseError(format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	return &ParseErr{msg: msg, summary: msg}
}

// WrapParseError builds a ParseErr wrapping an underlying cause.
func WrapParseError(cause error, format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	return &ParseErr{msg: fmt.Sprintf("%s: %v", msg, cause), summary: msg, wrap: cause}
}

// UnsolvableAtLevelErr describes a goal that is not reachable at one level
// of the graph (spec §7). The graphplan driver does not construct it: Plan
// handles an unreachable or unextractable goal by expanding further, and
// returns only UnsolvableErr or LevelCapExceededErr.
type UnsolvableAtLevelErr struct {
	Level int
	Cause string
}

func (e *UnsolvableAtLevelErr) Error() string {
	return fmt.Sprintf("goal not reachable at level %d: %s", e.Level, e.Cause)
}

// UnsolvableAtLevel builds an UnsolvableAtLevelErr.
func UnsolvableAtLevel(level int, cause string) error {
	return &UnsolvableAtLevelErr{Level: level, Cause: cause}
}

// UnsolvableErr is returned by Plan when the planning graph has leveled off
// and the nogood table has also reached a fixpoint between two consecutive
// top-level extraction attempts (spec §4.4, §7): the goal is provably
// unreachable.
type UnsolvableErr struct {
	Level int
}

func (e *UnsolvableErr) Error() string {
	return fmt.Sprintf("no plan exists (graph leveled off and nogoods reached a fixpoint at level %d)", e.Level)
}

// Unsolvable builds an UnsolvableErr.
func Unsolvable(level int) error {
	return &UnsolvableErr{Level: level}
}

// LevelCapExceededErr is returned when expansion would exceed an optional
// level cap (spec §5, §7; CLI exit code 3).
type LevelCapExceededErr struct {
	MaxLevel int
}

func (e *LevelCapExceededErr) Error() string {
	return fmt.Sprintf("planning graph exceeded level cap (%d) before a plan or fixpoint was found", e.MaxLevel)
}

// LevelCapExceeded builds a LevelCapExceededErr.
func LevelCapExceeded(maxLevel int) error {
	return &LevelCapExceededErr{MaxLevel: maxLevel}
}

// DomainAssertionErr is a fatal error indicating a bug in the domain
// instantiator: an action constructor received the wrong arity (spec §7).
// Callers are expected to recover() a panic carrying this error only in
// test harnesses; production code paths should never trigger it, since the
// instantiator always supplies matching arities.
type DomainAssertionErr struct {
	msg string
}

func (e *DomainAssertionErr) Error() string { return e.msg }

// DomainAssertion builds a DomainAssertionErr suitable for panic().
func DomainAssertion(format string, a ...interface{}) error {
	return &DomainAssertionErr{msg: fmt.Sprintf("domain assertion failed: %s", fmt.Sprintf(format, a...))}
}
