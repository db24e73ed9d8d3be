package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dekarrin/rocketplan/internal/graphplan"
	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) dao.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plannerd.db")
	store, err := NewDatastore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleProblem() graphplan.Problem {
	return graphplan.Problem{
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
	}
}

func Test_JobsDB_CreateAndGetByID_RoundTripsProblemAndPlan(t *testing.T) {
	store := newTestStore(t)
	owner := uuid.New()
	problem := sampleProblem()

	domain, plan, err := graphplan.Solve(problem, 0)
	require.NoError(t, err)

	created, err := store.Jobs().Create(context.Background(), dao.Job{
		Owner:   owner,
		Status:  dao.JobSucceeded,
		Problem: problem,
		Plan:    plan,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	fetched, err := store.Jobs().GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, problem, fetched.Problem)
	assert.Equal(t, domain.Elide(plan), domain.Elide(fetched.Plan))
}

func Test_JobsDB_Update_StoresFailureWithNilPlan(t *testing.T) {
	store := newTestStore(t)
	owner := uuid.New()
	problem := sampleProblem()

	job, err := store.Jobs().Create(context.Background(), dao.Job{
		Owner:   owner,
		Status:  dao.JobRunning,
		Problem: problem,
	})
	require.NoError(t, err)
	assert.Nil(t, job.Plan)

	job.Status = dao.JobFailed
	job.Failure = "no plan exists"
	job.Finished = time.Now()

	updated, err := store.Jobs().Update(context.Background(), job.ID, job)
	require.NoError(t, err)

	assert.Equal(t, dao.JobFailed, updated.Status)
	assert.Equal(t, "no plan exists", updated.Failure)
	assert.Nil(t, updated.Plan)
}

func Test_JobsDB_GetByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Jobs().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_APIKeysDB_CreateAndGetByOwner(t *testing.T) {
	store := newTestStore(t)
	owner := uuid.New()

	created, err := store.APIKeys().Create(context.Background(), dao.APIKey{
		Owner:    owner,
		HashedID: "bcrypt-hash",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	fetched, err := store.APIKeys().GetByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "bcrypt-hash", fetched.HashedID)
}
