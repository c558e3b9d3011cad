package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Binding overrides one dispatch table entry. Fields hold the upper-case
// names of the mode, gesture, timing class and action token.
type Binding struct {
	ID        string
	Mode      string
	Gesture   string
	Timing    string
	Action    string
	CreatedAt time.Time
}

// BindingRepository provides CRUD operations for binding overrides.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Set inserts b or replaces the action of the existing override for the
// same (mode, gesture, timing).
func (r *BindingRepository) Set(b *Binding) error {
	b.ID = uuid.New().String()
	b.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO bindings (id, mode, gesture, timing, action, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(mode, gesture, timing) DO UPDATE SET action = excluded.action`,
		b.ID, b.Mode, b.Gesture, b.Timing, b.Action, b.CreatedAt,
	)
	if err != nil {
		return err
	}

	// On conflict the original row, and its id, survive.
	return r.db.QueryRow(
		`SELECT id, created_at FROM bindings WHERE mode = ? AND gesture = ? AND timing = ?`,
		b.Mode, b.Gesture, b.Timing,
	).Scan(&b.ID, &b.CreatedAt)
}

// List retrieves all overrides ordered by mode, gesture and timing.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(
		`SELECT id, mode, gesture, timing, action, created_at FROM bindings
		 ORDER BY mode, gesture, timing`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		if err := rows.Scan(&b.ID, &b.Mode, &b.Gesture, &b.Timing, &b.Action, &b.CreatedAt); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, rows.Err()
}

// Delete removes the override for (mode, gesture, timing).
func (r *BindingRepository) Delete(mode, gesture, timing string) error {
	result, err := r.db.Exec(
		`DELETE FROM bindings WHERE mode = ? AND gesture = ? AND timing = ?`,
		mode, gesture, timing,
	)
	if err != nil {
		return err
	}
	return affectedOne(result)
}
