package graphplan

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rocketplan/internal/planerrors"
)

// ActionKind names one of the four ground action schemas (spec §3).
type ActionKind string

const (
	KindMove ActionKind = "MOVE"
	KindLoad ActionKind = "LOAD"
	KindUnload ActionKind = "UNLOAD"
	KindNoop ActionKind = "NOOP"
)

// Action is a ground action instance: name(args), with precondition and
// add/delete effect sets expressed as propSets over the Domain's interned
// propositions. Action values are only ever constructed by a Domain, which
// owns the propTable the Pre/Add/Del sets are indexed against.
type Action struct {
	Kind ActionKind
	Args []string

	// Phi is set only for Kind == KindNoop: the single proposition this
	// NOOP carries across a layer.
	Phi Proposition

	Pre propSet
	Add propSet
	Del propSet
}

type propSet = idSet[propID]

func (a Action) key() string {
	if a.Kind == KindNoop {
		return string(a.Kind) + "(" + a.Phi.key() + ")"
	}
	return string(a.Kind) + "(" + strings.Join(a.Args, ",") + ")"
}

// String renders an Action the way the original rocket-domain prototype
// did, e.g. "r1 MOVE from p1 to p2".
func (a Action) String() string {
	switch a.Kind {
	case KindMove:
		return fmt.Sprintf("%s MOVE from %s to %s", a.Args[0], a.Args[1], a.Args[2])
	case KindLoad:
		return fmt.Sprintf("%s LOAD in %s at %s", a.Args[0], a.Args[1], a.Args[2])
	case KindUnload:
		return fmt.Sprintf("%s UNLOAD from %s at %s", a.Args[0], a.Args[1], a.Args[2])
	case KindNoop:
		return fmt.Sprintf("NOOP %s", a.Phi.String())
	default:
		return string(a.Kind) + "(" + strings.Join(a.Args, ",") + ")"
	}
}

// IsNoop reports whether a is a NOOP action.
func (a Action) IsNoop() bool {
	return a.Kind == KindNoop
}

// actionID is an interned id for an Action, analogous to propID.
type actionID int

type actionSet = idSet[actionID]

type actionTable struct {
	byKey map[string]actionID
	byID  []Action
}

func newActionTable() *actionTable {
	return &actionTable{byKey: make(map[string]actionID)}
}

func (t *actionTable) intern(a Action) actionID {
	k := a.key()
	if id, ok := t.byKey[k]; ok {
		return id
	}
	id := actionID(len(t.byID))
	t.byID = append(t.byID, a)
	t.byKey[k] = id
	return id
}

func (t *actionTable) action(id actionID) Action {
	return t.byID[id]
}

func (t *actionTable) size() int {
	return len(t.byID)
}

// newMove builds the MOVE(r,p1,p2) action: pre {at(r,p1), has-fuel(r)},
// add {at(r,p2)}, del {at(r,p1), has-fuel(r)}. MOVE consumes has-fuel;
// refueling is not modeled (spec §9, "Open questions").
func newMove(pt *propTable, rocket, from, to string) Action {
	if rocket == "" || from == "" || to == "" {
		panic(planerrors.DomainAssertion(fmt.Sprintf("MOVE requires (rocket, from, to), got (%q,%q,%q)", rocket, from, to)))
	}
	pre := newIDSet[propID](0)
	pre = pre.Add(pt.intern(Prop("at", rocket, from)))
	pre = pre.Add(pt.intern(Prop("has-fuel", rocket)))

	add := newIDSet[propID](0)
	add = add.Add(pt.intern(Prop("at", rocket, to)))

	del := newIDSet[propID](0)
	del = del.Add(pt.intern(Prop("at", rocket, from)))
	del = del.Add(pt.intern(Prop("has-fuel", rocket)))

	return Action{Kind: KindMove, Args: []string{rocket, from, to}, Pre: pre, Add: add, Del: del}
}

// newLoad builds LOAD(c,r,p): pre {at(r,p), at(c,p)}, add {in(c,r)},
// del {at(c,p)}.
func newLoad(pt *propTable, cargo, rocket, place string) Action {
	if cargo == "" || rocket == "" || place == "" {
		panic(planerrors.DomainAssertion(fmt.Sprintf("LOAD requires (cargo, rocket, place), got (%q,%q,%q)", cargo, rocket, place)))
	}
	pre := newIDSet[propID](0)
	pre = pre.Add(pt.intern(Prop("at", rocket, place)))
	pre = pre.Add(pt.intern(Prop("at", cargo, place)))

	add := newIDSet[propID](0)
	add = add.Add(pt.intern(Prop("in", cargo, rocket)))

	del := newIDSet[propID](0)
	del = del.Add(pt.intern(Prop("at", cargo, place)))

	return Action{Kind: KindLoad, Args: []string{cargo, rocket, place}, Pre: pre, Add: add, Del: del}
}

// newUnload builds UNLOAD(c,r,p): pre {at(r,p), in(c,r)}, add {at(c,p)},
// del {in(c,r)}.
func newUnload(pt *propTable, cargo, rocket, place string) Action {
	if cargo == "" || rocket == "" || place == "" {
		panic(planerrors.DomainAssertion(fmt.Sprintf("UNLOAD requires (cargo, rocket, place), got (%q,%q,%q)", cargo, rocket, place)))
	}
	pre := newIDSet[propID](0)
	pre = pre.Add(pt.intern(Prop("at", rocket, place)))
	pre = pre.Add(pt.intern(Prop("in", cargo, rocket)))

	add := newIDSet[propID](0)
	add = add.Add(pt.intern(Prop("at", cargo, place)))

	del := newIDSet[propID](0)
	del = del.Add(pt.intern(Prop("in", cargo, rocket)))

	return Action{Kind: KindUnload, Args: []string{cargo, rocket, place}, Pre: pre, Add: add, Del: del}
}

// newNoop builds NOOP(phi): pre {phi}, add {phi}, del {}. Exactly one NOOP
// exists per reachable proposition; it is a first-class action of the graph
// (spec §3) used to carry a fact across layers and preferred as a provider
// during extraction (spec §4.3).
func newNoop(pt *propTable, phi Proposition) Action {
	id := pt.intern(phi)
	pre := newIDSet[propID](0).Add(id)
	add := newIDSet[propID](0).Add(id)
	del := newIDSet[propID](0)

	return Action{Kind: KindNoop, Args: nil, Phi: phi, Pre: pre, Add: add, Del: del}
}
