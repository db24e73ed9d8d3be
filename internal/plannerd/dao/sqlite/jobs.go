package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/google/uuid"
)

// JobsDB is the sqlite-backed dao.JobRepository.
type JobsDB struct {
	db *sql.DB
}

func (repo *JobsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS jobs (
		id TEXT NOT NULL PRIMARY KEY,
		owner TEXT NOT NULL,
		status TEXT NOT NULL,
		problem BLOB NOT NULL,
		plan BLOB,
		failure TEXT NOT NULL DEFAULT '',
		submitted INTEGER NOT NULL,
		finished INTEGER NOT NULL DEFAULT 0
	);`
	_, err := repo.db.Exec(stmt)
	return wrapDBError(err)
}

func (repo *JobsDB) Create(ctx context.Context, job dao.Job) (dao.Job, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Job{}, err
	}
	job.ID = id
	job.Submitted = time.Now()

	stmt, err := repo.db.Prepare(`INSERT INTO jobs (id, owner, status, problem, plan, failure, submitted, finished)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		convertToDB_UUID(job.ID), convertToDB_UUID(job.Owner), string(job.Status),
		convertToDB_Problem(job.Problem), convertToDB_Plan(job.Plan), job.Failure,
		job.Submitted.Unix(), int64(0))
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}

	return job, nil
}

func (repo *JobsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, owner, status, problem, plan, failure, submitted, finished FROM jobs WHERE id = ?`,
		convertToDB_UUID(id))
	return scanJob(row)
}

func (repo *JobsDB) Update(ctx context.Context, id uuid.UUID, job dao.Job) (dao.Job, error) {
	if !job.Finished.IsZero() {
		stmt, err := repo.db.Prepare(`UPDATE jobs SET status = ?, plan = ?, failure = ?, finished = ? WHERE id = ?`)
		if err != nil {
			return dao.Job{}, wrapDBError(err)
		}
		defer stmt.Close()

		res, err := stmt.ExecContext(ctx, string(job.Status), convertToDB_Plan(job.Plan), job.Failure,
			job.Finished.Unix(), convertToDB_UUID(id))
		if err != nil {
			return dao.Job{}, wrapDBError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return dao.Job{}, dao.ErrNotFound
		}
		return repo.GetByID(ctx, id)
	}

	stmt, err := repo.db.Prepare(`UPDATE jobs SET status = ? WHERE id = ?`)
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, string(job.Status), convertToDB_UUID(id))
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dao.Job{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *JobsDB) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Job, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, owner, status, problem, plan, failure, submitted, finished FROM jobs WHERE owner = ?`,
		convertToDB_UUID(owner))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Job
	for rows.Next() {
		job, err := scanJobRows(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, job)
	}
	return all, wrapDBError(rows.Err())
}

func (repo *JobsDB) Close() error { return nil }

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (dao.Job, error) {
	return scanJobRows(row)
}

func scanJobRows(row scanner) (dao.Job, error) {
	var job dao.Job
	var idStr, ownerStr, status string
	var problemBlob, planBlob []byte
	var submitted, finished int64

	err := row.Scan(&idStr, &ownerStr, &status, &problemBlob, &planBlob, &job.Failure, &submitted, &finished)
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(idStr, &job.ID); err != nil {
		return dao.Job{}, err
	}
	if err := convertFromDB_UUID(ownerStr, &job.Owner); err != nil {
		return dao.Job{}, err
	}
	job.Status = dao.JobStatus(status)
	if err := convertFromDB_Problem(problemBlob, &job.Problem); err != nil {
		return dao.Job{}, err
	}
	if err := convertFromDB_Plan(planBlob, &job.Plan); err != nil {
		return dao.Job{}, err
	}
	job.Submitted = time.Unix(submitted, 0)
	if finished > 0 {
		job.Finished = time.Unix(finished, 0)
	}

	return job, nil
}
