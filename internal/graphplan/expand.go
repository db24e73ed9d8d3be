package graphplan

// expand builds layer k+1 from layer prev (spec §4.2). Steps run in the
// order required by the spec since later steps read earlier results:
// candidate actions, then action mutexes, then propositions, then
// proposition mutexes, then link sets.
func (d *Domain) expand(prev *Layer) *Layer {
	next := &Layer{Level: prev.Level + 1}

	next.Actions = d.candidateActions(prev)
	next.MutexActions = d.actionMutexes(next.Actions, prev.MutexPropositions)
	next.Propositions = d.producedPropositions(next.Actions)
	next.MutexPropositions = d.propositionMutexes(next.Propositions, next.Actions, next.MutexActions)
	next.PrecondLinks, next.AddLinks, next.DelLinks = d.links(prev, next)

	return next
}

// candidateActions is step 1 of expand: every ground action whose every
// precondition is in prev's propositions and no two distinct preconditions
// are mutex at prev. NOOPs for every proposition in prev are included
// automatically, since a NOOP's sole precondition is that proposition
// (trivially present) and a proposition is never self-mutex.
func (d *Domain) candidateActions(prev *Layer) actionSet {
	result := newIDSet[actionID](d.NumActions())

	d.AllActions().Each(func(id actionID) {
		a := d.Action(id)
		if !a.Pre.IsSubsetOf(prev.Propositions) {
			return
		}
		if hasCompetingPreconditions(a.Pre, prev.MutexPropositions) {
			return
		}
		result = result.Add(id)
	})
	return result
}

func hasCompetingPreconditions(pre propSet, mutexProps pairSet[propID]) bool {
	competing := false
	pre.Each(func(p propID) {
		if competing {
			return
		}
		pre.Each(func(q propID) {
			if competing || p == q {
				return
			}
			if mutexProps.Has(p, q) {
				competing = true
			}
		})
	})
	return competing
}

// actionMutexes is step 2 of expand.
func (d *Domain) actionMutexes(actions actionSet, prevMutexProps pairSet[propID]) pairSet[actionID] {
	result := newPairSet[actionID]()
	ids := actions.Slice()
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if d.areMutexActions(a, b, prevMutexProps) {
				result.Add(a, b)
			}
		}
	}
	return result
}

// producedPropositions is step 3 of expand: the union of positive effects
// of every candidate action.
func (d *Domain) producedPropositions(actions actionSet) propSet {
	result := newIDSet[propID](d.NumPropositions())
	actions.Each(func(a actionID) {
		d.Action(a).Add.Each(func(p propID) {
			result = result.Add(p)
		})
	})
	return result
}

// propositionMutexes is step 4 of expand.
func (d *Domain) propositionMutexes(props propSet, actions actionSet, mutexActions pairSet[actionID]) pairSet[propID] {
	producersOf := func(p propID) actionSet {
		result := newIDSet[actionID](d.NumActions())
		actions.Each(func(a actionID) {
			if d.Action(a).Add.Has(p) {
				result = result.Add(a)
			}
		})
		return result
	}

	result := newPairSet[propID]()
	ids := props.Slice()
	for i, p := range ids {
		for _, q := range ids[i+1:] {
			if areMutexPropositions(p, q, producersOf, mutexActions) {
				result.Add(p, q)
			}
		}
	}
	return result
}

// links is step 5 of expand: purely informational, never consulted by
// search (spec §3).
func (d *Domain) links(prev, next *Layer) (pre []precondLink, add []effectLink, del []effectLink) {
	next.Actions.Each(func(a actionID) {
		action := d.Action(a)
		action.Pre.Each(func(p propID) {
			if prev.Propositions.Has(p) {
				pre = append(pre, precondLink{Prop: p, Action: a})
			}
		})
		action.Add.Each(func(p propID) {
			add = append(add, effectLink{Action: a, Prop: p})
		})
		action.Del.Each(func(p propID) {
			del = append(del, effectLink{Action: a, Prop: p})
		})
	})
	return pre, add, del
}
