// Package sqlite is a modernc.org/sqlite-backed dao.Store for cmd/plannerd,
// following the teacher's server/dao/sqlite package: one *sql.DB, one type
// per repository, REZI-encoded blobs for the structured fields that don't
// map cleanly onto SQL columns.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rocketplan/internal/graphplan"
	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	db   *sql.DB
	jobs *JobsDB
	keys *APIKeysDB
}

// NewDatastore opens (creating if necessary) the sqlite database at file
// and returns a dao.Store backed by it.
func NewDatastore(file string) (dao.Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	s := &store{db: db}
	s.jobs = &JobsDB{db: db}
	if err := s.jobs.init(); err != nil {
		return nil, err
	}
	s.keys = &APIKeysDB{db: db}
	if err := s.keys.init(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *store) Jobs() dao.JobRepository       { return s.jobs }
func (s *store) APIKeys() dao.APIKeyRepository { return s.keys }
func (s *store) Close() error                  { return s.db.Close() }

func convertToDB_UUID(u uuid.UUID) string { return u.String() }

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %v", dao.ErrDecodingFailure, err)
	}
	*target = u
	return nil
}

// convertToDB_Problem REZI-encodes a graphplan.Problem for BLOB storage.
func convertToDB_Problem(p graphplan.Problem) []byte {
	return rezi.EncBinary(p)
}

func convertFromDB_Problem(b []byte, target *graphplan.Problem) error {
	_, err := rezi.DecBinary(b, target)
	if err != nil {
		return fmt.Errorf("%w: %v", dao.ErrDecodingFailure, err)
	}
	return nil
}

// convertToDB_Plan REZI-encodes a graphplan.LayeredPlan for BLOB storage. A
// nil plan (job not yet finished, or finished unsuccessfully) encodes to an
// empty blob.
func convertToDB_Plan(p graphplan.LayeredPlan) []byte {
	if p == nil {
		return nil
	}
	return rezi.EncBinary(p)
}

func convertFromDB_Plan(b []byte, target *graphplan.LayeredPlan) error {
	if len(b) == 0 {
		*target = nil
		return nil
	}
	_, err := rezi.DecBinary(b, target)
	if err != nil {
		return fmt.Errorf("%w: %v", dao.ErrDecodingFailure, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
