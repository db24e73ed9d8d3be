// Package graphplan implements the Rocket-domain Graphplan planner: a
// layered planning graph built forward by expand, searched backward by
// extract, and driven to a fixpoint by Plan.
package graphplan

import (
	"fmt"
	"strings"
)

// Proposition is a ground atom name(args...). Name is one of "at", "in", or
// "has-fuel". Propositions are immutable once constructed; equality and
// hashing are structural over (name, args).
type Proposition struct {
	Name string
	Args []string
}

// Prop builds a Proposition. Args are copied so the caller's slice may be
// reused.
func Prop(name string, args ...string) Proposition {
	cp := make([]string, len(args))
	copy(cp, args)
	return Proposition{Name: name, Args: cp}
}

func (p Proposition) key() string {
	return p.Name + "(" + strings.Join(p.Args, ",") + ")"
}

// String renders a Proposition the way the original rocket-domain prototype
// did: "arg0 name arg1...".
func (p Proposition) String() string {
	if len(p.Args) == 0 {
		return p.Name
	}
	if len(p.Args) == 1 {
		return fmt.Sprintf("%s %s", p.Args[0], p.Name)
	}
	return fmt.Sprintf("%s %s %s", p.Args[0], p.Name, strings.Join(p.Args[1:], " "))
}

// propID is a small interned integer standing in for a Proposition. The
// interning table is built once by the Domain and never mutated afterward,
// so propIDs can be used as dense bitset indices for the lifetime of a
// Planner (design note: "Interned identifiers", spec §9).
type propID int

// propTable interns Propositions to small integers so that sets of
// propositions can be represented as dense bitsets instead of hash sets.
type propTable struct {
	byKey map[string]propID
	byID  []Proposition
}

func newPropTable() *propTable {
	return &propTable{byKey: make(map[string]propID)}
}

// intern returns the id for p, assigning a new one if p has not been seen
// before.
func (t *propTable) intern(p Proposition) propID {
	k := p.key()
	if id, ok := t.byKey[k]; ok {
		return id
	}
	id := propID(len(t.byID))
	t.byID = append(t.byID, p)
	t.byKey[k] = id
	return id
}

// lookup returns the id for p and whether p has been interned.
func (t *propTable) lookup(p Proposition) (propID, bool) {
	id, ok := t.byKey[p.key()]
	return id, ok
}

func (t *propTable) prop(id propID) Proposition {
	return t.byID[id]
}

func (t *propTable) size() int {
	return len(t.byID)
}
