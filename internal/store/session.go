package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the pipeline, live or replayed.
type Session struct {
	ID        string
	Source    string // "live" or the replayed file
	Profile   string
	StartedAt time.Time
	EndedAt   *time.Time
	Events    int // filled by List
}

// Event is one action edge recorded during a session.
type Event struct {
	ID        int64
	SessionID string
	Timestamp float64
	Mode      string
	Gesture   string
	Action    string
}

// SessionRepository records sessions and their events.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start creates a new open session.
func (r *SessionRepository) Start(source, profile string) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		Source:    source,
		Profile:   profile,
		StartedAt: time.Now(),
	}
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, source, profile, started_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Source, sess.Profile, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// End marks a session finished.
func (r *SessionRepository) End(id string) error {
	result, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}
	return affectedOne(result)
}

// AddEvents appends events to a session in a single transaction.
func (r *SessionRepository) AddEvents(sessionID string, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO events (session_id, t, mode, gesture, action) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(sessionID, e.Timestamp, e.Mode, e.Gesture, e.Action); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime
	err := r.db.QueryRow(
		`SELECT s.id, s.source, s.profile, s.started_at, s.ended_at,
		        (SELECT COUNT(*) FROM events e WHERE e.session_id = s.id)
		 FROM sessions s WHERE s.id = ?`,
		id,
	).Scan(&sess.ID, &sess.Source, &sess.Profile, &sess.StartedAt, &ended, &sess.Events)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	return sess, nil
}

// List returns the most recent sessions, newest first, with event counts.
// limit <= 0 returns all of them.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT s.id, s.source, s.profile, s.started_at, s.ended_at, COUNT(e.id)
		 FROM sessions s LEFT JOIN events e ON e.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var ended sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.Source, &sess.Profile, &sess.StartedAt, &ended, &sess.Events); err != nil {
			return nil, err
		}
		if ended.Valid {
			sess.EndedAt = &ended.Time
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Events returns a session's events in time order.
func (r *SessionRepository) Events(sessionID string) ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, t, mode, gesture, action FROM events
		 WHERE session_id = ? ORDER BY t, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Timestamp, &e.Mode, &e.Gesture, &e.Action); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
