// Package inmem is a non-persistent dao.Store, for tests and for running
// cmd/plannerd without a database configured (spec SPEC_FULL.md's
// plannerd "driver": "inmem" default), following the teacher's in-memory
// repository pattern of a mutex-guarded map per entity.
package inmem

import (
	"context"
	"sync"

	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/google/uuid"
)

type store struct {
	jobs *jobRepo
	keys *apiKeyRepo
}

// NewDatastore builds an empty in-memory dao.Store.
func NewDatastore() dao.Store {
	return &store{
		jobs: &jobRepo{byID: make(map[uuid.UUID]dao.Job)},
		keys: &apiKeyRepo{byOwner: make(map[uuid.UUID]dao.APIKey)},
	}
}

func (s *store) Jobs() dao.JobRepository       { return s.jobs }
func (s *store) APIKeys() dao.APIKeyRepository { return s.keys }
func (s *store) Close() error                  { return nil }

type jobRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]dao.Job
}

func (r *jobRepo) Create(ctx context.Context, job dao.Job) (dao.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Job{}, err
	}
	job.ID = id
	r.byID[id] = job
	return job, nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.byID[id]
	if !ok {
		return dao.Job{}, dao.ErrNotFound
	}
	return job, nil
}

func (r *jobRepo) Update(ctx context.Context, id uuid.UUID, job dao.Job) (dao.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return dao.Job{}, dao.ErrNotFound
	}
	job.ID = id
	r.byID[id] = job
	return job, nil
}

func (r *jobRepo) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []dao.Job
	for _, job := range r.byID {
		if job.Owner == owner {
			all = append(all, job)
		}
	}
	return all, nil
}

func (r *jobRepo) Close() error { return nil }

type apiKeyRepo struct {
	mu      sync.Mutex
	byOwner map[uuid.UUID]dao.APIKey
}

func (r *apiKeyRepo) Create(ctx context.Context, key dao.APIKey) (dao.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := uuid.NewRandom()
	if err != nil {
		return dao.APIKey{}, err
	}
	key.ID = id
	r.byOwner[key.Owner] = key
	return key, nil
}

func (r *apiKeyRepo) GetByOwner(ctx context.Context, owner uuid.UUID) (dao.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.byOwner[owner]
	if !ok {
		return dao.APIKey{}, dao.ErrNotFound
	}
	return key, nil
}

func (r *apiKeyRepo) Close() error { return nil }
