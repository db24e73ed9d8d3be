package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/google/uuid"
)

// APIKeysDB is the sqlite-backed dao.APIKeyRepository.
type APIKeysDB struct {
	db *sql.DB
}

func (repo *APIKeysDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS api_keys (
		id TEXT NOT NULL PRIMARY KEY,
		owner TEXT NOT NULL UNIQUE,
		hashed_id TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	return wrapDBError(err)
}

func (repo *APIKeysDB) Create(ctx context.Context, key dao.APIKey) (dao.APIKey, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.APIKey{}, err
	}
	key.ID = id
	key.Created = time.Now()

	stmt, err := repo.db.Prepare(`INSERT INTO api_keys (id, owner, hashed_id, created) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return dao.APIKey{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, convertToDB_UUID(key.ID), convertToDB_UUID(key.Owner), key.HashedID, key.Created.Unix())
	if err != nil {
		return dao.APIKey{}, wrapDBError(err)
	}
	return key, nil
}

func (repo *APIKeysDB) GetByOwner(ctx context.Context, owner uuid.UUID) (dao.APIKey, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, owner, hashed_id, created FROM api_keys WHERE owner = ?`,
		convertToDB_UUID(owner))

	var key dao.APIKey
	var idStr, ownerStr string
	var created int64

	err := row.Scan(&idStr, &ownerStr, &key.HashedID, &created)
	if err != nil {
		return dao.APIKey{}, wrapDBError(err)
	}
	if err := convertFromDB_UUID(idStr, &key.ID); err != nil {
		return dao.APIKey{}, err
	}
	if err := convertFromDB_UUID(ownerStr, &key.Owner); err != nil {
		return dao.APIKey{}, err
	}
	key.Created = time.Unix(created, 0)
	return key, nil
}

func (repo *APIKeysDB) Close() error { return nil }
