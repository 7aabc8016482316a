// Package sqlite keeps the key space of a collection.Backend in a SQLite
// file, so a single process can persist records without a key-value server.
//
// Every key gets a row in keys with an increasing seq, which is the scan
// cursor. Counters live in keys.counter and hash fields in fields.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tidwall/match"
	_ "modernc.org/sqlite"

	"github.com/fulldump/recordstore/collection"
)

const (
	ReplyWrongType = "WRONGTYPE Operation against a key holding the wrong kind of value"
	ReplyNoFields  = "ERR wrong number of arguments for 'hmset' command"

	defaultScanCount = 10
)

var ErrWrongType = errors.New(ReplyWrongType)

const schema = `
CREATE TABLE IF NOT EXISTS keys (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	key     TEXT NOT NULL UNIQUE,
	counter INTEGER
);
CREATE TABLE IF NOT EXISTS fields (
	key   TEXT NOT NULL,
	field TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (key, field)
);`

type Backend struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for a
// volatile one.
func Open(ctx context.Context, path string) (*Backend, error) {

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// one connection: writes are serialized and ":memory:" is shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Backend{db: db}, nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) Increment(ctx context.Context, key string) (int64, error) {

	var n int64
	err := b.db.QueryRowContext(ctx, `
		INSERT INTO keys (key, counter) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET counter = counter + 1
		WHERE counter IS NOT NULL
		RETURNING counter`,
		key,
	).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, ErrWrongType
	}
	if err != nil {
		return 0, fmt.Errorf("increment %q: %w", key, err)
	}

	return n, nil
}

// lookup tells if key exists and if it holds a counter.
func lookup(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, key string) (exists, isCounter bool, err error) {

	var counter sql.NullInt64
	err = q.QueryRowContext(ctx, "SELECT counter FROM keys WHERE key = ?", key).Scan(&counter)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}

	return true, counter.Valid, nil
}

func (b *Backend) WriteFields(ctx context.Context, key string, fields collection.Record) (string, error) {

	if len(fields) == 0 {
		return ReplyNoFields, nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	exists, isCounter, err := lookup(ctx, tx, key)
	if err != nil {
		return "", fmt.Errorf("write %q: %w", key, err)
	}
	if isCounter {
		return ReplyWrongType, nil
	}

	if !exists {
		_, err := tx.ExecContext(ctx, "INSERT INTO keys (key) VALUES (?)", key)
		if err != nil {
			return "", fmt.Errorf("write %q: %w", key, err)
		}
	}

	for field, value := range fields {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO fields (key, field, value) VALUES (?, ?, ?)
			ON CONFLICT(key, field) DO UPDATE SET value = excluded.value`,
			key, field, value,
		)
		if err != nil {
			return "", fmt.Errorf("write %q: %w", key, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return "", fmt.Errorf("write %q: %w", key, err)
	}

	return collection.ReplyOK, nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	exists, _, err := lookup(ctx, b.db, key)
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", key, err)
	}
	return exists, nil
}

func (b *Backend) ReadFields(ctx context.Context, key string) (collection.Record, error) {

	_, isCounter, err := lookup(ctx, b.db, key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	if isCounter {
		return nil, ErrWrongType
	}

	rows, err := b.db.QueryContext(ctx, "SELECT field, value FROM fields WHERE key = ?", key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	defer rows.Close()

	result := collection.Record{}
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, err
		}
		result[field] = value
	}

	return result, rows.Err()
}

func (b *Backend) Delete(ctx context.Context, key string) error {

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fields WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM keys WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	return tx.Commit()
}

// Scan visits up to count keys after cursor and returns the ones matching
// the glob pattern. The returned cursor is the seq of the last visited key,
// or 0 when there is nothing left.
func (b *Backend) Scan(ctx context.Context, cursor uint64, pattern string, count int64) (uint64, []string, error) {

	if count < 1 {
		count = defaultScanCount
	}
	if pattern == "" {
		pattern = "*"
	}

	rows, err := b.db.QueryContext(ctx,
		"SELECT seq, key FROM keys WHERE seq > ? ORDER BY seq LIMIT ?",
		int64(cursor), count,
	)
	if err != nil {
		return collection.CursorStart, nil, fmt.Errorf("scan: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	visited := int64(0)
	last := int64(0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&last, &key); err != nil {
			return collection.CursorStart, nil, err
		}
		visited++
		if match.Match(key, pattern) {
			keys = append(keys, key)
		}
	}
	if err := rows.Err(); err != nil {
		return collection.CursorStart, nil, fmt.Errorf("scan: %w", err)
	}

	if visited < count {
		return collection.CursorStart, keys, nil
	}

	return uint64(last), keys, nil
}
