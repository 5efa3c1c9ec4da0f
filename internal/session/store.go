// Package session persists the auth token and user id across process
// restarts. Reads fail toward logged-out: any storage or decryption problem
// yields an absent session rather than an error the caller must handle.
package session

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/flyt/flyt/internal/database"
)

const (
	keyToken  = "token"
	keyUserID = "user_id"
)

// Session is the locally persisted auth state. Zero values mean absent.
type Session struct {
	Token  string
	UserID int64
}

// Store is the durable key/value store behind the session. The token value is
// sealed before it reaches disk.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log.With().Str("component", "session").Logger()}
}

// Get returns the current session. It never returns an error: an unreadable
// or undecryptable token is reported as an absent session so the app lands on
// the login screen instead of crashing.
func (s *Store) Get(ctx context.Context) Session {
	var out Session

	if enc, ok := s.read(ctx, keyToken); ok {
		tok, err := openToken(enc)
		if err != nil {
			s.log.Warn().Err(err).Msg("stored token unreadable, treating session as absent")
			return Session{}
		}
		out.Token = tok
	}
	if raw, ok := s.read(ctx, keyUserID); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			out.UserID = id
		}
	}
	return out
}

// SetToken seals and persists the bearer token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	enc, err := sealToken(token)
	if err != nil {
		return err
	}
	return s.write(ctx, keyToken, enc)
}

// SetUserID persists the authenticated user's id.
func (s *Store) SetUserID(ctx context.Context, id int64) error {
	return s.write(ctx, keyUserID, strconv.FormatInt(id, 10))
}

// Clear removes all session state. Both keys go in one transaction so a
// partial logout can't leave a token without its user id.
func (s *Store) Clear(ctx context.Context) error {
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM session WHERE key IN (?, ?)`, keyToken, keyUserID)
		return err
	})
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("session read failed, treating as absent")
		return "", false
	}
	return value, true
}

func (s *Store) write(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, database.Now())
	return err
}
