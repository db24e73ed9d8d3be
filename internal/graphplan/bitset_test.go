package graphplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSet_SetOps(t *testing.T) {
	a := newIDSet[propID](0).Add(1).Add(2).Add(3)
	b := newIDSet[propID](0).Add(2).Add(3).Add(4)

	assert.ElementsMatch(t, []propID{1, 2, 3}, a.Slice())
	assert.True(t, a.Has(2))
	assert.False(t, a.Has(4))

	union := a.Union(b)
	assert.ElementsMatch(t, []propID{1, 2, 3, 4}, union.Slice())

	inter := a.Intersect(b)
	assert.ElementsMatch(t, []propID{2, 3}, inter.Slice())

	diff := a.Difference(b)
	assert.ElementsMatch(t, []propID{1}, diff.Slice())

	assert.True(t, newIDSet[propID](0).Add(1).IsSubsetOf(a))
	assert.False(t, b.IsSubsetOf(a))

	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(b))

	assert.False(t, a.DisjointWith(b))
	assert.True(t, a.DisjointWith(newIDSet[propID](0).Add(9)))
}

func TestPairSet_Canonical(t *testing.T) {
	s := newPairSet[propID]()
	s.Add(3, 1)
	assert.True(t, s.Has(1, 3))
	assert.True(t, s.Has(3, 1))
	assert.Equal(t, 1, s.Len())

	s.Add(1, 1)
	assert.Equal(t, 1, s.Len())

	other := newPairSet[propID]()
	other.Add(1, 3)
	assert.True(t, s.Equal(other))
	assert.True(t, s.supersetOf(other))
}
