package graphplan

import (
	"testing"

	"github.com/dekarrin/rocketplan/internal/planerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSolve(t *testing.T, p Problem) (*Domain, LayeredPlan, error) {
	t.Helper()
	return Solve(p, 0)
}

func levelActionStrings(d *Domain, plan LayeredPlan, i int) []string {
	return d.StringLevel(plan[i])
}

// Scenario 1: goal already true in the initial state -> empty plan.
func Test_Scenario_Trivial(t *testing.T) {
	p := Problem{
		Cargos:  []string{"c1"},
		Rockets: []string{"r1"},
		Places:  []string{"p1"},
		Init: []Proposition{
			Prop("at", "c1", "p1"),
			Prop("at", "r1", "p1"),
			Prop("has-fuel", "r1"),
		},
		Goal: []Proposition{Prop("at", "c1", "p1")},
	}

	_, plan, err := mustSolve(t, p)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

// Scenario 2: a single MOVE suffices.
func Test_Scenario_SingleMove(t *testing.T) {
	p := Problem{
		Rockets: []string{"r1"},
		Places:  []string{"p1", "p2"},
		Init: []Proposition{
			Prop("at", "r1", "p1"),
			Prop("has-fuel", "r1"),
		},
		Goal: []Proposition{Prop("at", "r1", "p2")},
	}

	d, plan, err := mustSolve(t, p)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, []string{"r1 MOVE from p1 to p2"}, levelActionStrings(d, plan, 0))
}

// Scenario 3: LOAD, MOVE, UNLOAD.
func Test_Scenario_LoadMoveUnload(t *testing.T) {
	p := Problem{
		Cargos:  []string{"c1"},
		Rockets: []string{"r1"},
		Places:  []string{"p1", "p2"},
		Init: []Proposition{
			Prop("at", "c1", "p1"),
			Prop("at", "r1", "p1"),
			Prop("has-fuel", "r1"),
		},
		Goal: []Proposition{Prop("at", "c1", "p2")},
	}

	d, plan, err := mustSolve(t, p)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, []string{"c1 LOAD in r1 at p1"}, levelActionStrings(d, plan, 0))
	assert.Equal(t, []string{"r1 MOVE from p1 to p2"}, levelActionStrings(d, plan, 1))
	assert.Equal(t, []string{"c1 UNLOAD from r1 at p2"}, levelActionStrings(d, plan, 2))

	final := d.Simulate(d.Init, plan)
	goalID, ok := d.props.lookup(Prop("at", "c1", "p2"))
	require.True(t, ok)
	assert.True(t, final.Has(goalID))
}

// Scenario 4: parallel load of two cargos onto the same rocket.
func Test_Scenario_ParallelLoad(t *testing.T) {
	p := Problem{
		Cargos:  []string{"c1", "c2"},
		Rockets: []string{"r1"},
		Places:  []string{"p1", "p2"},
		Init: []Proposition{
			Prop("at", "c1", "p1"),
			Prop("at", "c2", "p1"),
			Prop("at", "r1", "p1"),
			Prop("has-fuel", "r1"),
		},
		Goal: []Proposition{
			Prop("at", "c1", "p2"),
			Prop("at", "c2", "p2"),
		},
	}

	d, plan, err := mustSolve(t, p)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	level1 := levelActionStrings(d, plan, 0)
	assert.ElementsMatch(t, []string{"c1 LOAD in r1 at p1", "c2 LOAD in r1 at p1"}, level1)
	assert.True(t, d.AllIndependent(d.Elide(plan)[0]))
}

// Scenario 5: fuel exhaustion makes the goal unreachable. The cargo starts
// at p2 and the rocket at p1, so delivering it to p3 takes two MOVEs, but
// the rocket has fuel for only one.
func Test_Scenario_FuelExhaustion(t *testing.T) {
	p := Problem{
		Cargos:  []string{"c1"},
		Rockets: []string{"r1"},
		Places:  []string{"p1", "p2", "p3"},
		Init: []Proposition{
			Prop("at", "c1", "p2"),
			Prop("at", "r1", "p1"),
			Prop("has-fuel", "r1"),
		},
		Goal: []Proposition{Prop("at", "c1", "p3")},
	}

	_, _, err := mustSolve(t, p)
	require.Error(t, err)
	var unsolvable *planerrors.UnsolvableErr
	assert.ErrorAs(t, err, &unsolvable)
}

// Scenario 6: the goal itself contains a mutex pair, so it can never
// become jointly reachable.
func Test_Scenario_MutexGoal(t *testing.T) {
	p := Problem{
		Cargos:  []string{"c1"},
		Rockets: []string{"r1"},
		Places:  []string{"p1", "p2"},
		Init: []Proposition{
			Prop("at", "c1", "p1"),
			Prop("at", "r1", "p1"),
			Prop("has-fuel", "r1"),
		},
		Goal: []Proposition{
			Prop("at", "c1", "p1"),
			Prop("at", "c1", "p2"),
		},
	}

	_, _, err := mustSolve(t, p)
	require.Error(t, err)
	var unsolvable *planerrors.UnsolvableErr
	assert.ErrorAs(t, err, &unsolvable)
}

// B1: goal already satisfied, no mutex pair among it -> empty plan.
func Test_Boundary_GoalSubsetOfInit(t *testing.T) {
	p := Problem{
		Rockets: []string{"r1"},
		Places:  []string{"p1"},
		Init:    []Proposition{Prop("at", "r1", "p1"), Prop("has-fuel", "r1")},
		Goal:    []Proposition{Prop("at", "r1", "p1")},
	}
	_, plan, err := mustSolve(t, p)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

// B2: empty goal -> empty plan.
func Test_Boundary_EmptyGoal(t *testing.T) {
	p := Problem{
		Rockets: []string{"r1"},
		Places:  []string{"p1"},
		Init:    []Proposition{Prop("at", "r1", "p1"), Prop("has-fuel", "r1")},
		Goal:    nil,
	}
	_, plan, err := mustSolve(t, p)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

// B3: no rockets -> MOVE never enters any layer, and a goal that needs one
// is unreachable after the fixpoint.
func Test_Boundary_NoRockets(t *testing.T) {
	p := Problem{
		Cargos: []string{"c1"},
		Places: []string{"p1", "p2"},
		Init:   []Proposition{Prop("at", "c1", "p1")},
		Goal:   []Proposition{Prop("at", "c1", "p2")},
	}
	d, _, err := mustSolve(t, p)
	require.Error(t, err)

	for i := 0; i < d.NumActions(); i++ {
		assert.NotEqual(t, KindMove, d.Action(actionID(i)).Kind)
	}
}

// P4: action-mutex symmetry.
func Test_Property_ActionMutexSymmetric(t *testing.T) {
	d, _, err := mustSolve(t, Problem{
		Cargos:  []string{"c1", "c2"},
		Rockets: []string{"r1"},
		Places:  []string{"p1", "p2"},
		Init: []Proposition{
			Prop("at", "c1", "p1"), Prop("at", "c2", "p1"),
			Prop("at", "r1", "p1"), Prop("has-fuel", "r1"),
		},
		Goal: []Proposition{Prop("at", "c1", "p2"), Prop("at", "c2", "p2")},
	})
	require.NoError(t, err)

	for _, pr := range d.independenceAsMutexPairsForTest() {
		assert.True(t, pr)
	}
}

// independenceAsMutexPairsForTest exercises P4 by checking the
// independence matrix (which backs action-mutex) is symmetric.
func (d *Domain) independenceAsMutexPairsForTest() []bool {
	var out []bool
	n := d.NumActions()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out = append(out, d.independent[i][j] == d.independent[j][i])
		}
	}
	return out
}

// P1/I5: propositions and actions grow monotonically across levels; mutex
// sets shrink monotonically.
func Test_Property_Monotonicity(t *testing.T) {
	d := NewDomain(
		[]string{"c1"}, []string{"r1"}, []string{"p1", "p2"},
		[]Proposition{Prop("at", "c1", "p1"), Prop("at", "r1", "p1"), Prop("has-fuel", "r1")},
		[]Proposition{Prop("at", "c1", "p2")},
	)
	planner := NewPlanner(d, 0)
	for i := 0; i < 4; i++ {
		require.NoError(t, planner.expandOnce())
	}
	for k := 1; k <= 4; k++ {
		cur, prev := planner.layers[k], planner.layers[k-1]
		assert.True(t, prev.Propositions.IsSubsetOf(cur.Propositions))
		assert.True(t, prev.Actions.IsSubsetOf(cur.Actions))
		assert.True(t, prev.MutexPropositions.supersetOf(cur.MutexPropositions))
		assert.True(t, prev.MutexActions.supersetOf(cur.MutexActions))
	}
}

// P2: every action's preconditions are drawn from the prior layer and no
// two of them are mutex there.
func Test_Property_PreconditionsFromPriorLayer(t *testing.T) {
	d := NewDomain(
		[]string{"c1"}, []string{"r1"}, []string{"p1", "p2"},
		[]Proposition{Prop("at", "c1", "p1"), Prop("at", "r1", "p1"), Prop("has-fuel", "r1")},
		[]Proposition{Prop("at", "c1", "p2")},
	)
	planner := NewPlanner(d, 0)
	require.NoError(t, planner.expandOnce())
	require.NoError(t, planner.expandOnce())

	layer := planner.layers[2]
	prev := planner.layers[1]
	layer.Actions.Each(func(a actionID) {
		pre := d.Action(a).Pre
		assert.True(t, pre.IsSubsetOf(prev.Propositions))
		ids := pre.Slice()
		for i, p := range ids {
			for _, q := range ids[i+1:] {
				assert.False(t, prev.MutexPropositions.Has(p, q))
			}
		}
	})
}

// P7: repeated extraction of a known-nogood goal at the same level returns
// immediately via table lookup rather than re-searching.
func Test_Property_NogoodMemoization(t *testing.T) {
	d := NewDomain(
		[]string{"c1"}, []string{"r1"}, []string{"p1", "p2", "p3"},
		[]Proposition{Prop("at", "c1", "p1"), Prop("at", "r1", "p1"), Prop("has-fuel", "r1")},
		[]Proposition{Prop("at", "c1", "p3")},
	)
	planner := NewPlanner(d, 0)

	goalID, ok := d.props.lookup(Prop("at", "c1", "p3"))
	require.True(t, ok)
	goal := newIDSet[propID](0).Add(goalID)

	require.NoError(t, planner.expandOnce())
	_, ok1 := planner.extract(goal, 1)
	assert.False(t, ok1)
	assert.True(t, planner.nogoods[1].has(goal))

	_, ok2 := planner.extract(goal, 1)
	assert.False(t, ok2)
}

func TestProposition_String(t *testing.T) {
	assert.Equal(t, "c1 at p1", Prop("at", "c1", "p1").String())
	assert.Equal(t, "r1 has-fuel", Prop("has-fuel", "r1").String())
}

func TestAction_String(t *testing.T) {
	d := NewDomain([]string{"c1"}, []string{"r1"}, []string{"p1", "p2"}, nil, nil)
	a := newLoad(d.props, "c1", "r1", "p1")
	assert.Equal(t, "c1 LOAD in r1 at p1", a.String())
}
