package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Profile is a named set of tuning values stored as a JSON object.
type Profile struct {
	ID        string
	Name      string
	Settings  json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepository provides CRUD operations for profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Save inserts p or, when a profile with the same name exists, replaces
// its settings. p.ID and timestamps are filled in.
func (r *ProfileRepository) Save(p *Profile) error {
	settings := p.Settings
	if settings == nil {
		settings = json.RawMessage("{}")
	}

	existing, err := r.GetByName(p.Name)
	switch {
	case errors.Is(err, ErrNotFound):
		now := time.Now()
		p.ID = uuid.New().String()
		p.CreatedAt, p.UpdatedAt = now, now
		_, err = r.db.Exec(
			`INSERT INTO profiles (id, name, settings, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.Name, string(settings), p.CreatedAt, p.UpdatedAt,
		)
		return err
	case err != nil:
		return err
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	_, err = r.db.Exec(
		`UPDATE profiles SET settings = ?, updated_at = ? WHERE id = ?`,
		string(settings), p.UpdatedAt, p.ID,
	)
	return err
}

// GetByName retrieves a profile by name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	p := &Profile{}
	var settings string

	err := r.db.QueryRow(
		`SELECT id, name, settings, created_at, updated_at FROM profiles WHERE name = ?`,
		name,
	).Scan(&p.ID, &p.Name, &settings, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Settings = json.RawMessage(settings)
	return p, nil
}

// List retrieves all profiles ordered by name.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(`SELECT id, name, settings, created_at, updated_at FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		var settings string
		if err := rows.Scan(&p.ID, &p.Name, &settings, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Settings = json.RawMessage(settings)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Delete removes a profile by name.
func (r *ProfileRepository) Delete(name string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return err
	}
	return affectedOne(result)
}
