package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"donorhub/internal/adapters/storage"
)

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a session to the database.
// PRE: s.Token is non-empty
// POST: Session is persisted (insert or replace)
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	query := `INSERT INTO session (token, username, phone_number, telegram_id, access_token, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET
			username=excluded.username,
			phone_number=excluded.phone_number,
			telegram_id=excluded.telegram_id,
			access_token=excluded.access_token`

	_, err := s.db.ExecContext(ctx, query,
		sess.Token,
		sess.Username,
		sess.PhoneNumber,
		sess.TelegramID,
		sess.AccessToken,
		sess.CreatedAt.Format(storage.TimeLayout),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get retrieves a session by local token.
// PRE: token is non-empty
// POST: Returns the session and true, or false when absent
func (s *SQLiteStore) Get(ctx context.Context, token string) (Session, bool, error) {
	query := "SELECT token, username, phone_number, telegram_id, access_token, created_at FROM session WHERE token = ?"
	row := s.db.QueryRowContext(ctx, query, token)

	var sess Session
	var createdAt string
	err := row.Scan(&sess.Token, &sess.Username, &sess.PhoneNumber, &sess.TelegramID, &sess.AccessToken, &createdAt)
	if err == sql.ErrNoRows {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("get session: %w", err)
	}
	if sess.CreatedAt, err = time.Parse(storage.TimeLayout, createdAt); err != nil {
		return Session{}, false, fmt.Errorf("parse session created_at: %w", err)
	}
	return sess, true, nil
}

// Delete removes a session.
// POST: Session with the given token no longer exists
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE token = ?", token)
	return err
}

// DeleteByPhone removes every session for one admin.
// POST: No sessions remain for the phone number
func (s *SQLiteStore) DeleteByPhone(ctx context.Context, phone string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE phone_number = ?", phone)
	return err
}
