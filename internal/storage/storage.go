// Package storage is the persistent key-value adapter. Each logical store
// owns a single key whose value is a JSON document; writes replace the value
// wholesale.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Store struct {
	DB  *sql.DB
	Now func() time.Time
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns the raw value for key. The second return is false when the key
// has never been written.
func (s Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Put writes the value for key, replacing any previous value.
func (s Store) Put(ctx context.Context, key, value string) error {
	ts := s.now().UTC().Format(time.RFC3339)
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO kv(key,value,updated_at) VALUES (?,?,?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, ts)
	return err
}

// GetJSON decodes the stored value for key into out. A missing key returns
// (false, nil); a malformed value returns the decode error so the caller can
// decide whether to fail open.
func (s Store) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return true, err
	}
	return true, nil
}

// PutJSON encodes v and writes it under key.
func (s Store) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, string(data))
}
