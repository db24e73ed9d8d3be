package replshell

import (
	"bytes"
	"testing"

	"github.com/dekarrin/rocketplan/internal/graphplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDomain() (*graphplan.Domain, *graphplan.Planner) {
	return graphplan.NewProblemPlanner(graphplan.Problem{
		Cargos:  []string{"c1"},
		Rockets: []string{"r1"},
		Places:  []string{"p1", "p2"},
		Init: []graphplan.Proposition{
			graphplan.Prop("at", "c1", "p1"),
			graphplan.Prop("at", "r1", "p1"),
			graphplan.Prop("has-fuel", "r1"),
		},
		Goal: []graphplan.Proposition{
			graphplan.Prop("at", "c1", "p2"),
		},
	}, 0)
}

func Test_Shell_Dispatch_ExpandAndShow(t *testing.T) {
	domain, planner := newTestDomain()
	var out bytes.Buffer
	sh := New(domain, planner, &out)

	_, done, err := sh.dispatch("expand")
	require.NoError(t, err)
	assert.False(t, done)
	assert.Contains(t, out.String(), "built level 1")

	out.Reset()
	_, done, err = sh.dispatch("show 1")
	require.NoError(t, err)
	assert.False(t, done)
	assert.Contains(t, out.String(), "level 1:")
}

func Test_Shell_Dispatch_Goal(t *testing.T) {
	domain, planner := newTestDomain()
	var out bytes.Buffer
	sh := New(domain, planner, &out)

	plan, done, err := sh.dispatch("goal")
	require.NoError(t, err)
	assert.True(t, done)
	assert.NotEmpty(t, plan)
	assert.Contains(t, out.String(), "plan extracted")
}

func Test_Shell_Dispatch_Quit(t *testing.T) {
	domain, planner := newTestDomain()
	var out bytes.Buffer
	sh := New(domain, planner, &out)

	_, done, err := sh.dispatch("quit")
	require.NoError(t, err)
	assert.True(t, done)
}

func Test_Shell_Dispatch_UnknownCommand(t *testing.T) {
	domain, planner := newTestDomain()
	var out bytes.Buffer
	sh := New(domain, planner, &out)

	_, done, err := sh.dispatch("frobnicate")
	assert.Error(t, err)
	assert.False(t, done)
}

func Test_Shell_Dispatch_ShowUnbuiltLevel(t *testing.T) {
	domain, planner := newTestDomain()
	var out bytes.Buffer
	sh := New(domain, planner, &out)

	_, done, err := sh.dispatch("show 5")
	assert.Error(t, err)
	assert.False(t, done)
}
