package graphplan

import "github.com/dekarrin/rocketplan/internal/planerrors"

// Planner owns the append-only layer sequence and the per-level nogood
// tables for one planning run (spec §3 "Lifecycle"). A Planner is built
// from a Domain and is not safe for concurrent use (spec §5: the planner
// is deterministic and single-threaded).
type Planner struct {
	domain *Domain
	layers []*Layer
	nogoods []*nogoodTable

	// maxLevel caps expansion (spec §5's optional k_max); 0 means no cap.
	maxLevel int

	// OnExpand, if set, is called after each new layer is appended, for
	// trace/progress reporting. It is not consulted by the algorithm.
	OnExpand func(layer *Layer)
}

// NewPlanner builds layer 0 from the domain's initial propositions
// (invariant I1: propositions[0] = init_propositions, mutex_propositions[0]
// = ∅) and returns a Planner ready to Plan().
func NewPlanner(d *Domain, maxLevel int) *Planner {
	p := &Planner{domain: d, maxLevel: maxLevel}
	p.layers = []*Layer{{
		Level:             0,
		Propositions:      d.Init.Clone(),
		Actions:           newIDSet[actionID](0),
		MutexPropositions: newPairSet[propID](),
		MutexActions:      newPairSet[actionID](),
	}}
	p.nogoods = []*nogoodTable{newNogoodTable()}
	return p
}

// Layer returns the layer at level k, or nil if it hasn't been built yet.
func (p *Planner) Layer(k int) *Layer {
	if k < 0 || k >= len(p.layers) {
		return nil
	}
	return p.layers[k]
}

// TopLevel is the highest level built so far.
func (p *Planner) TopLevel() int { return len(p.layers) - 1 }

// expandOnce appends layer len(p.layers) built from the current top layer,
// and a fresh nogood slot for it (spec §4.2 step 6). Returns
// LevelCapExceededErr if that would exceed maxLevel.
func (p *Planner) expandOnce() error {
	next := p.TopLevel() + 1
	if p.maxLevel > 0 && next > p.maxLevel {
		return planerrors.LevelCapExceeded(p.maxLevel)
	}
	layer := p.domain.expand(p.layers[len(p.layers)-1])
	p.layers = append(p.layers, layer)
	p.nogoods = append(p.nogoods, newNogoodTable())
	if p.OnExpand != nil {
		p.OnExpand(layer)
	}
	return nil
}

// ExpandOnce builds exactly one more layer on top of the current top
// level, for callers stepping through the graph manually (internal/replshell)
// instead of running Plan to a fixpoint.
func (p *Planner) ExpandOnce() error {
	return p.expandOnce()
}

// goalReachable reports whether every proposition in goal is present in
// layer and no pair within goal is mutex at layer (spec §4.4).
func goalReachable(goal propSet, layer *Layer) bool {
	if !goal.IsSubsetOf(layer.Propositions) {
		return false
	}
	ids := goal.Slice()
	for i, p := range ids {
		for _, q := range ids[i+1:] {
			if layer.MutexPropositions.Has(p, q) {
				return false
			}
		}
	}
	return true
}

// leveledOff reports whether layer k is identical to layer k-1 in
// propositions, actions, and both mutex relations (spec §4.4, invariant
// I5 makes this monotone so equality is a true fixpoint test).
func (p *Planner) leveledOff(k int) bool {
	if k < 1 {
		return false
	}
	cur, prev := p.layers[k], p.layers[k-1]
	return cur.Propositions.Equal(prev.Propositions) &&
		cur.Actions.Equal(prev.Actions) &&
		cur.MutexPropositions.Equal(prev.MutexPropositions) &&
		cur.MutexActions.Equal(prev.MutexActions)
}

// Plan runs the graphplan driver (spec §4.4) to a fixpoint, returning the
// extracted layered plan or a planerrors.UnsolvableErr /
// planerrors.LevelCapExceededErr.
func (p *Planner) Plan(goal propSet) (LayeredPlan, error) {
	k := 0
	for !goalReachable(goal, p.layers[k]) && !p.leveledOff(k) {
		if err := p.expandOnce(); err != nil {
			return nil, err
		}
		k++
	}

	if !goalReachable(goal, p.layers[k]) {
		return nil, planerrors.Unsolvable(k)
	}

	nogoodSize := 0
	if p.leveledOff(k) {
		nogoodSize = p.nogoods[k].size()
	}

	plan, ok := p.extract(goal, k)
	for !ok {
		if err := p.expandOnce(); err != nil {
			return nil, err
		}
		k++

		plan, ok = p.extract(goal, k)
		if !ok && p.leveledOff(k) {
			last := p.nogoods[k].size()
			if last == nogoodSize {
				return nil, planerrors.Unsolvable(k)
			}
			nogoodSize = last
		}
	}

	return plan, nil
}
