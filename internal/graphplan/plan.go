package graphplan

// Simulate applies a layered plan concurrently, level by level, starting
// from init: each level's actions have their delete effects removed and
// add effects inserted all at once, exactly as spec §8's soundness
// property (P5) requires. It returns the resulting proposition set.
func (d *Domain) Simulate(init propSet, plan LayeredPlan) propSet {
	state := init.Clone()
	for _, level := range plan {
		dels := newIDSet[propID](d.NumPropositions())
		adds := newIDSet[propID](d.NumPropositions())
		level.Each(func(a actionID) {
			action := d.Action(a)
			action.Del.Each(func(p propID) { dels = dels.Add(p) })
			action.Add.Each(func(p propID) { adds = adds.Add(p) })
		})
		state = state.Difference(dels).Union(adds)
	}
	return state
}

// AllIndependent reports whether every pair of actions within a single
// level is pairwise independent (spec §8 property P6).
func (d *Domain) AllIndependent(level actionSet) bool {
	ids := level.Slice()
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if !d.Independent(a, b) {
				return false
			}
		}
	}
	return true
}

// StringLevel renders one level of a plan as a slice of non-NOOP action
// strings, in ascending interned-id order (so output is
// stable across calls on the same Domain).
func (d *Domain) StringLevel(level actionSet) []string {
	var out []string
	level.Each(func(a actionID) {
		act := d.Action(a)
		if !act.IsNoop() {
			out = append(out, act.String())
		}
	})
	return out
}
