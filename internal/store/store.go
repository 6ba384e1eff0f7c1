// Package store implements the durable key/value layer backing the app:
// a plain tier for cached data and an encrypted tier for credential
// material, both persisted in a single local sqlite database.
//
// Error contract: writes surface common.ErrEncoding (value not
// serializable) or common.ErrStoreUnavailable (persistence failed); reads
// degrade to "absent" on any storage failure and never crash the caller.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/cryptox"
	"github.com/metgo3d/fieldsync/internal/dbx"
	"github.com/metgo3d/fieldsync/internal/logging"
)

// Store is safe for concurrent use; the two tiers are independent tables
// and never block each other beyond database/sql's pooling.
type Store struct {
	db  *sql.DB
	key []byte
	log logging.Logger
}

// New builds a Store over db. key is the AES key protecting the secure
// tier (see cryptox.LoadOrCreateDeviceKey).
func New(db *sql.DB, key []byte, log logging.Logger) *Store {
	return &Store{db: db, key: key, log: log.With("component", "store")}
}

// SetPlain marshals v to JSON and upserts it into the plain tier.
func (s *Store) SetPlain(ctx context.Context, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", common.ErrEncoding, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_plain (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", common.ErrStoreUnavailable, key, err)
	}
	return nil
}

// GetPlain unmarshals the value stored under key into out. It returns
// false when the key is absent or the underlying read fails; a found but
// undecodable value reports common.ErrEncoding.
func (s *Store) GetPlain(ctx context.Context, key string, out any) (bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_plain WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		s.log.Warn(ctx, "plain read failed, treating as absent", "key", key, "err", err)
		return false, nil
	}

	if err := json.Unmarshal(value, out); err != nil {
		return false, fmt.Errorf("%w: unmarshal %s: %v", common.ErrEncoding, key, err)
	}
	return true, nil
}

// SetSecure seals v with the device key and upserts it into the encrypted
// tier. Used exclusively for credential material.
func (s *Store) SetSecure(ctx context.Context, key string, v any) error {
	ciphertext, nonce, err := cryptox.Seal(v, s.key)
	if err != nil {
		return fmt.Errorf("%w: seal %s: %v", common.ErrEncoding, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_secure (key, ciphertext, nonce) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET ciphertext = excluded.ciphertext, nonce = excluded.nonce
	`, key, ciphertext, nonce)
	if err != nil {
		return fmt.Errorf("%w: set secure %s: %v", common.ErrStoreUnavailable, key, err)
	}
	return nil
}

// GetSecure reads and opens the value stored under key in the encrypted
// tier. Read and decrypt failures both degrade to absent: an unreadable
// credential is as good as no credential.
func (s *Store) GetSecure(ctx context.Context, key string, out any) (bool, error) {
	var ciphertext, nonce []byte
	err := s.db.QueryRowContext(ctx, `SELECT ciphertext, nonce FROM kv_secure WHERE key = ?`, key).
		Scan(&ciphertext, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		s.log.Warn(ctx, "secure read failed, treating as absent", "key", key, "err", err)
		return false, nil
	}

	if err := cryptox.Open(ciphertext, nonce, s.key, out); err != nil {
		s.log.Warn(ctx, "secure value unreadable, treating as absent", "key", key, "err", err)
		return false, nil
	}
	return true, nil
}

// Remove deletes key from the plain tier. Removing an absent key is not
// an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_plain WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: remove %s: %v", common.ErrStoreUnavailable, key, err)
	}
	return nil
}

// RemoveSecure deletes key from the encrypted tier, idempotently.
func (s *Store) RemoveSecure(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_secure WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: remove secure %s: %v", common.ErrStoreUnavailable, key, err)
	}
	return nil
}

// ExportAll returns every plain-tier pair for backup export. Secure-tier
// values never appear in exports.
func (s *Store) ExportAll(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv_plain`)
	if err != nil {
		return nil, fmt.Errorf("%w: export: %v", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	result := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: export scan: %v", common.ErrStoreUnavailable, err)
		}
		result[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: export rows: %v", common.ErrStoreUnavailable, err)
	}
	return result, nil
}

// ClearAll wipes both tiers and the outbox in one transaction. Destructive
// and irreversible; intended only for account reset.
func (s *Store) ClearAll(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, table := range []string{"kv_plain", "kv_secure", "outbox"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: clear all: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}
