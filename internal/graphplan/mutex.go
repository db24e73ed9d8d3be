package graphplan

// areMutexActions decides action-mutex between two distinct candidate
// actions at the layer being built, given the previous layer's proposition
// mutexes (spec §4.2). Two actions are mutex iff they are dependent
// (interference, from the static independence table) or they have
// competing needs: some pair of their preconditions is mutex at the prior
// level.
func (d *Domain) areMutexActions(a, b actionID, prevMutexProps pairSet[propID]) bool {
	if a == b {
		return false
	}
	if !d.Independent(a, b) {
		return true
	}

	aAction := d.Action(a)
	bAction := d.Action(b)

	mutex := false
	aAction.Pre.Each(func(p propID) {
		if mutex {
			return
		}
		bAction.Pre.Each(func(q propID) {
			if mutex {
				return
			}
			if prevMutexProps.Has(p, q) {
				mutex = true
			}
		})
	})
	return mutex
}

// areMutexPropositions decides proposition-mutex between two distinct
// propositions at the layer being built (spec §4.2): mutex iff every pair
// of producers (one producing p, one producing q, including the case
// where the same action produces both) is itself action-mutex at this
// layer. Any p in propositions[k+1] has at least one producer by
// construction (step 3 of expand), so the "vacuously true" empty-producer
// case described in spec §4.2 cannot arise here.
func areMutexPropositions(p, q propID, producersOf func(propID) actionSet, mutexActions pairSet[actionID]) bool {
	producersP := producersOf(p)
	producersQ := producersOf(q)

	mutex := true
	producersP.Each(func(a actionID) {
		if !mutex {
			return
		}
		producersQ.Each(func(b actionID) {
			if !mutex {
				return
			}
			if a == b {
				// A shared producer is one action achieving both p and q
				// simultaneously; it cannot be mutex with itself, so the
				// pair is not universally mutex.
				mutex = false
				return
			}
			if !mutexActions.Has(a, b) {
				mutex = false
			}
		})
	})
	return mutex
}
