// Package localstore keeps a per-user copy of exams and marks on local disk,
// served when the record store cannot be reached.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/examally/examally/core"
)

// collection keys
const (
	ExamsKey = "school-exams"
	MarksKey = "school-marks"
)

const schema = `CREATE TABLE IF NOT EXISTS "kv" (
	"scope"      TEXT NOT NULL,
	"key"        TEXT NOT NULL,
	"value"      TEXT NOT NULL,
	"updated_at" TIMESTAMP NOT NULL,
	PRIMARY KEY ("scope", "key")
)`

// Store is a key-value store scoped per user. Values are whole JSON encoded collections.
type Store struct {
	db  *sqlx.DB
	now func() time.Time // mockable
}

func Open(conf *core.Config) (*Store, error) {
	db, err := sqlx.Open("sqlite", conf.LocalStore.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "opening local store")
	}
	// sqlite allows a single writer; an in-memory database also lives on one connection only
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating local store schema")
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get decodes the value at (scope, key) into dest. ok is false if there is none.
func (s *Store) Get(ctx context.Context, scope, key string, dest interface{}) (ok bool, err error) {
	var value string
	err = s.db.GetContext(ctx, &value, `SELECT "value" FROM "kv" WHERE "scope" = ? AND "key" = ?`, scope, key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", key)
	}
	if err = json.Unmarshal([]byte(value), dest); err != nil {
		return false, errors.Wrapf(err, "decoding %s", key)
	}
	return true, nil
}

// Put replaces the value at (scope, key).
func (s *Store) Put(ctx context.Context, scope, key string, value interface{}) error {
	return s.put(ctx, s.db, scope, key, value)
}

func (s *Store) put(ctx context.Context, exec sqlx.ExecerContext, scope, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	q := `INSERT INTO "kv" ("scope", "key", "value", "updated_at") VALUES (?, ?, ?, ?)
		ON CONFLICT ("scope", "key") DO UPDATE SET "value" = excluded."value", "updated_at" = excluded."updated_at"`
	if _, err = exec.ExecContext(ctx, q, scope, key, string(b), s.now().UTC()); err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}
	return nil
}

// Update reads the collection at (scope, key) into dest, applies fn and writes dest back, in one transaction.
// dest must be a pointer; it is left untouched when there is no stored value yet.
func (s *Store) Update(ctx context.Context, scope, key string, dest interface{}, fn func() error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning local store transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var value string
	err = tx.GetContext(ctx, &value, `SELECT "value" FROM "kv" WHERE "scope" = ? AND "key" = ?`, scope, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return errors.Wrapf(err, "reading %s", key)
	default:
		if err = json.Unmarshal([]byte(value), dest); err != nil {
			return errors.Wrapf(err, "decoding %s", key)
		}
	}

	if err = fn(); err != nil {
		return err
	}
	if err = s.put(ctx, tx, scope, key, dest); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing local store transaction")
}
