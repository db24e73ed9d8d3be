package graphplan

// pairSet is an order-independent set of 2-element id pairs, used for both
// mutex_propositions and mutex_actions (spec §3, §9 "Hashable unordered
// pairs"). Pairs are canonicalized (smaller id first) before hashing so
// {a,b} and {b,a} are always the same entry, giving the symmetric lookup
// the mutex relation requires (spec P4).
type pairSet[ID ~int] struct {
	m map[[2]ID]struct{}
}

func newPairSet[ID ~int]() pairSet[ID] {
	return pairSet[ID]{m: make(map[[2]ID]struct{})}
}

func canonPair[ID ~int](a, b ID) [2]ID {
	if a <= b {
		return [2]ID{a, b}
	}
	return [2]ID{b, a}
}

// Add records {a,b} as mutex. A pair with a == b is never added: a value is
// never mutex with itself.
func (s pairSet[ID]) Add(a, b ID) {
	if a == b {
		return
	}
	s.m[canonPair(a, b)] = struct{}{}
}

// Has reports whether {a,b} was recorded as mutex.
func (s pairSet[ID]) Has(a, b ID) bool {
	if a == b {
		return false
	}
	_, ok := s.m[canonPair(a, b)]
	return ok
}

// Len returns the number of distinct mutex pairs.
func (s pairSet[ID]) Len() int {
	return len(s.m)
}

// Pairs returns all recorded pairs, in no particular order.
func (s pairSet[ID]) Pairs() [][2]ID {
	out := make([][2]ID, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	return out
}

// Equal reports whether s and o record exactly the same pairs.
func (s pairSet[ID]) Equal(o pairSet[ID]) bool {
	if len(s.m) != len(o.m) {
		return false
	}
	for p := range s.m {
		if _, ok := o.m[p]; !ok {
			return false
		}
	}
	return true
}

// supersetOf reports whether s contains every pair in o (used to check the
// antitone mutex invariant I5: mutex_propositions[k] ⊇ mutex_propositions[k+1]).
func (s pairSet[ID]) supersetOf(o pairSet[ID]) bool {
	for p := range o.m {
		if _, ok := s.m[p]; !ok {
			return false
		}
	}
	return true
}
