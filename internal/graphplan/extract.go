package graphplan

import (
	"sort"
	"strconv"
	"strings"
)

// LayeredPlan is [A_1, ..., A_k] where A_i is the set of actions selected
// for level i (spec §4.3). NOOPs are retained; callers may filter them
// with Elide.
type LayeredPlan []actionSet

// Elide returns a copy of the plan with NOOP actions removed from every
// level, for display purposes (spec §6, "one line per level, NOOPs
// elided").
func (d *Domain) Elide(plan LayeredPlan) LayeredPlan {
	out := make(LayeredPlan, len(plan))
	for i, level := range plan {
		kept := newIDSet[actionID](d.NumActions())
		level.Each(func(a actionID) {
			if !d.Action(a).IsNoop() {
				kept = kept.Add(a)
			}
		})
		out[i] = kept
	}
	return out
}

// nogoodTable records, for one level, the goal subsets already proven
// unreachable at that level (spec §3 "Nogood table"). Entries grow-only
// within a level and are preserved across the outer driver loop.
type nogoodTable struct {
	seen map[string]struct{}
}

func newNogoodTable() *nogoodTable {
	return &nogoodTable{seen: make(map[string]struct{})}
}

func goalKey(goal propSet) string {
	ids := goal.Slice()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}

func (t *nogoodTable) has(goal propSet) bool {
	_, ok := t.seen[goalKey(goal)]
	return ok
}

func (t *nogoodTable) add(goal propSet) {
	t.seen[goalKey(goal)] = struct{}{}
}

func (t *nogoodTable) size() int {
	return len(t.seen)
}

// extract is the backward entry point (spec §4.3). k==0 always succeeds
// with the empty plan: the outer driver only ever calls extract(goal, 0)
// once goal_set ⊆ propositions[0] has already been confirmed by
// goalReachable, so the initial state satisfies the goal by construction.
func (p *Planner) extract(goal propSet, k int) (LayeredPlan, bool) {
	if k == 0 {
		return LayeredPlan{}, true
	}

	nogoods := p.nogoods[k]
	if nogoods.has(goal) {
		return nil, false
	}

	plan, ok := p.gpSearch(goal, newIDSet[actionID](0), k)
	if !ok {
		nogoods.add(goal)
		return nil, false
	}
	return plan, true
}

// gpSearch is the mutually-recursive backward search step (spec §4.3).
func (p *Planner) gpSearch(remaining propSet, chosen actionSet, k int) (LayeredPlan, bool) {
	if remaining.Empty() {
		subgoal := preconditionUnion(p.domain, chosen)
		tail, ok := p.extract(subgoal, k-1)
		if !ok {
			return nil, false
		}
		return append(tail, chosen), true
	}

	phi := remaining.Slice()[0]
	layer := p.layers[k]
	providers := p.orderedProviders(phi, layer, chosen)

	if len(providers) == 0 {
		return nil, false
	}

	for _, a := range providers {
		chosenNext := chosen.Clone().Add(a)
		remainingNext := remaining.Difference(p.domain.Action(a).Add)

		plan, ok := p.gpSearch(remainingNext, chosenNext, k)
		if ok {
			return plan, true
		}
	}
	return nil, false
}

// orderedProviders computes providers(phi) at layer (actions in the
// layer with phi among their positive effects that are pairwise
// non-mutex with every already-chosen action), with NOOPs ordered first
// (spec §4.3: "retain a fact by its NOOP rather than re-deriving it").
// Tie-breaking beyond that is not specified by the spec; actions are
// otherwise ordered by interned id for reproducibility.
func (p *Planner) orderedProviders(phi propID, layer *Layer, chosen actionSet) []actionID {
	var providers []actionID

	layer.Actions.Each(func(a actionID) {
		if !p.domain.Action(a).Add.Has(phi) {
			return
		}
		compatible := true
		chosen.Each(func(c actionID) {
			if compatible && layer.MutexActions.Has(a, c) {
				compatible = false
			}
		})
		if compatible {
			providers = append(providers, a)
		}
	})

	sort.SliceStable(providers, func(i, j int) bool {
		ai, aj := p.domain.Action(providers[i]), p.domain.Action(providers[j])
		if ai.IsNoop() != aj.IsNoop() {
			return ai.IsNoop()
		}
		return providers[i] < providers[j]
	})
	return providers
}

// preconditionUnion computes ⋃ preconditions(a) for a in chosen (used by
// gpSearch's base case to form the next level's subgoal).
func preconditionUnion(d *Domain, chosen actionSet) propSet {
	result := newIDSet[propID](d.NumPropositions())
	chosen.Each(func(a actionID) {
		d.Action(a).Pre.Each(func(p propID) {
			result = result.Add(p)
		})
	})
	return result
}
