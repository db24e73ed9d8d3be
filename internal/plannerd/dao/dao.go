// Package dao provides data access objects for the planning-as-a-service
// daemon, cmd/plannerd: a Job store and an API-key store, following the
// shape of the teacher's server/dao package (a Store aggregate plus one
// repository interface per entity, context-aware methods, a small shared
// sentinel-error set).
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/dekarrin/rocketplan/internal/graphplan"
	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrDecodingFailure     = errors.New("field could not be decoded from storage format")
)

// Store aggregates the repositories a plannerd server needs.
type Store interface {
	Jobs() JobRepository
	APIKeys() APIKeyRepository
	Close() error
}

// JobStatus is a Job's lifecycle state.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is one submitted planning request and, once finished, its result.
// Plan and Failure are mutually exclusive: a finished Job has exactly
// one of them set, matching its Status.
type Job struct {
	ID        uuid.UUID
	Owner     uuid.UUID
	Status    JobStatus
	Problem   graphplan.Problem
	Plan      graphplan.LayeredPlan
	Failure   string
	Submitted time.Time
	Finished  time.Time
}

// JobRepository stores submitted planning jobs and their eventual results.
type JobRepository interface {
	Create(ctx context.Context, job Job) (Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	Update(ctx context.Context, id uuid.UUID, job Job) (Job, error)
	GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]Job, error)
	Close() error
}

// APIKey is a bcrypt-hashed bearer credential identifying one client
// (spec SPEC_FULL.md "plannerd" auth: clients exchange an API key for a
// short-lived JWT, mirroring the teacher's user/password-then-JWT flow).
type APIKey struct {
	ID       uuid.UUID
	Owner    uuid.UUID
	HashedID string
	Created  time.Time
}

// APIKeyRepository stores issued API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, key APIKey) (APIKey, error)
	GetByOwner(ctx context.Context, owner uuid.UUID) (APIKey, error)
	Close() error
}
