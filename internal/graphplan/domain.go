package graphplan

// Domain is the Rocket-logistics domain instantiator (spec §4.1). Built
// once from the parsed problem's objects, init state, and goal, it
// enumerates every ground proposition and ground action the domain can
// express (including one NOOP per proposition) and precomputes the static
// action-independence table. A Domain is read-only after construction and
// is shared, unmutated, by every Layer a Planner builds from it.
type Domain struct {
	Cargos  []string
	Rockets []string
	Places  []string

	props *propTable
	acts  *actionTable

	// allActions is the full set of ground actions the domain can ever
	// produce; expand() filters this down per layer.
	allActions actionSet

	// independent[i][j] is true iff actions i and j are independent (spec
	// §4.1): neither action's delete set intersects the other's
	// precondition or add set. Stored as a dense n×n [][]bool with both
	// halves filled: independent[a][b] mirrors independent[b][a], and
	// independent[a][a] is always true (an action
	// is never mutex with itself via interference; self-mutex is excluded
	// by are_mutex_actions's a != b check regardless).
	independent [][]bool

	Init propSet
	Goal propSet
}

// NewDomain builds the Rocket domain and its static independence table from
// parsed problem objects. cargos, rockets, and places must be pairwise
// disjoint object-identifier lists; init and goal are sets of ground
// Propositions over those objects.
func NewDomain(cargos, rockets, places []string, init, goal []Proposition) *Domain {
	d := &Domain{
		Cargos:  append([]string(nil), cargos...),
		Rockets: append([]string(nil), rockets...),
		Places:  append([]string(nil), places...),
		props:   newPropTable(),
		acts:    newActionTable(),
	}

	d.internAllPropositions()
	d.internAllActions()
	d.buildIndependenceTable()

	d.Init = newIDSet[propID](0)
	for _, p := range init {
		id, ok := d.props.lookup(p)
		if !ok {
			continue
		}
		d.Init = d.Init.Add(id)
	}

	d.Goal = newIDSet[propID](0)
	for _, p := range goal {
		id, ok := d.props.lookup(p)
		if !ok {
			continue
		}
		d.Goal = d.Goal.Add(id)
	}

	return d
}

// internAllPropositions enumerates every proposition the domain can
// express (spec §4.1): for each cargo, in(c,r) for every rocket and
// at(c,p) for every place; for each rocket, has-fuel(r) and at(r,p) for
// every place.
func (d *Domain) internAllPropositions() {
	for _, c := range d.Cargos {
		for _, r := range d.Rockets {
			d.props.intern(Prop("in", c, r))
		}
		for _, p := range d.Places {
			d.props.intern(Prop("at", c, p))
		}
	}
	for _, r := range d.Rockets {
		d.props.intern(Prop("has-fuel", r))
		for _, p := range d.Places {
			d.props.intern(Prop("at", r, p))
		}
	}
}

// internAllActions enumerates every ground LOAD, UNLOAD, and MOVE, plus one
// NOOP per proposition (spec §4.1).
func (d *Domain) internAllActions() {
	d.allActions = newIDSet[actionID](0)

	for _, c := range d.Cargos {
		for _, r := range d.Rockets {
			for _, p := range d.Places {
				d.allActions = d.allActions.Add(d.acts.intern(newLoad(d.props, c, r, p)))
				d.allActions = d.allActions.Add(d.acts.intern(newUnload(d.props, c, r, p)))
			}
		}
	}
	for _, r := range d.Rockets {
		for _, p1 := range d.Places {
			for _, p2 := range d.Places {
				if p1 == p2 {
					continue
				}
				d.allActions = d.allActions.Add(d.acts.intern(newMove(d.props, r, p1, p2)))
			}
		}
	}
	for id := 0; id < d.props.size(); id++ {
		phi := d.props.prop(propID(id))
		d.allActions = d.allActions.Add(d.acts.intern(newNoop(d.props, phi)))
	}
}

// independentActions reports the purely syntactic independence relation
// (spec §4.1, GLOSSARY "Independence"): neither action's negative effects
// intersect the other's preconditions or positive effects.
func independentActions(a, b Action) bool {
	indep := true
	a.Del.Each(func(id propID) {
		if b.Pre.Has(id) || b.Add.Has(id) {
			indep = false
		}
	})
	if !indep {
		return false
	}
	b.Del.Each(func(id propID) {
		if a.Pre.Has(id) || a.Add.Has(id) {
			indep = false
		}
	})
	return indep
}

// buildIndependenceTable computes the total actions × actions independence
// table once, since independence is invariant across layers (spec §4.1
// Rationale).
func (d *Domain) buildIndependenceTable() {
	n := d.acts.size()
	d.independent = make([][]bool, n)
	for i := range d.independent {
		d.independent[i] = make([]bool, n)
	}

	for i := 0; i < n; i++ {
		ai := d.acts.action(actionID(i))
		d.independent[i][i] = true
		for j := i + 1; j < n; j++ {
			aj := d.acts.action(actionID(j))
			ok := independentActions(ai, aj)
			d.independent[i][j] = ok
			d.independent[j][i] = ok
		}
	}
}

// Independent is the single-bit-test independence predicate (spec §9).
func (d *Domain) Independent(a, b actionID) bool {
	return d.independent[a][b]
}

// Action returns the ground Action for an interned actionID.
func (d *Domain) Action(id actionID) Action { return d.acts.action(id) }

// Proposition returns the ground Proposition for an interned propID.
func (d *Domain) Proposition(id propID) Proposition { return d.props.prop(id) }

// AllActions is every ground action (including NOOPs) the domain can ever
// produce.
func (d *Domain) AllActions() actionSet { return d.allActions }

// NumPropositions is the size of the proposition universe.
func (d *Domain) NumPropositions() int { return d.props.size() }

// NumActions is the size of the action universe.
func (d *Domain) NumActions() int { return d.acts.size() }
