package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/skyhands/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Gesture is a stored gesture description.
type Gesture struct {
	ID          string
	Description gesture.Description
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Name is the description name, unique across stored gestures.
func (g *Gesture) Name() string {
	return g.Description.Name
}

// GestureRepository provides CRUD operations for gestures.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

// Create validates and inserts g. An empty ID is filled with a new UUID.
func (r *GestureRepository) Create(g *Gesture) error {
	if err := g.Description.Validate(); err != nil {
		return err
	}
	def, err := json.Marshal(g.Description)
	if err != nil {
		return fmt.Errorf("encode gesture: %w", err)
	}

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err = r.db.Exec(
		`INSERT INTO gestures (id, name, definition, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name(), string(def), g.CreatedAt, g.UpdatedAt,
	)
	return err
}

const selectGesture = `SELECT id, definition, created_at, updated_at FROM gestures`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGesture(row rowScanner) (*Gesture, error) {
	g := &Gesture{}
	var def string
	if err := row.Scan(&g.ID, &def, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(def), &g.Description); err != nil {
		return nil, fmt.Errorf("decode gesture %s: %w", g.ID, err)
	}
	return g, nil
}

// GetByID retrieves a gesture by its ID.
func (r *GestureRepository) GetByID(id string) (*Gesture, error) {
	g, err := scanGesture(r.db.QueryRow(selectGesture+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// GetByName retrieves a gesture by its name.
func (r *GestureRepository) GetByName(name string) (*Gesture, error) {
	g, err := scanGesture(r.db.QueryRow(selectGesture+` WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// List retrieves all gestures ordered by name.
func (r *GestureRepository) List() ([]*Gesture, error) {
	rows, err := r.db.Query(selectGesture + ` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gestures []*Gesture
	for rows.Next() {
		g, err := scanGesture(rows)
		if err != nil {
			return nil, err
		}
		gestures = append(gestures, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gestures, nil
}

// Descriptions returns the descriptions of all stored gestures.
func (r *GestureRepository) Descriptions() ([]gesture.Description, error) {
	gestures, err := r.List()
	if err != nil {
		return nil, err
	}
	descs := make([]gesture.Description, len(gestures))
	for i, g := range gestures {
		descs[i] = g.Description
	}
	return descs, nil
}

// Update replaces the description of an existing gesture.
func (r *GestureRepository) Update(g *Gesture) error {
	if err := g.Description.Validate(); err != nil {
		return err
	}
	def, err := json.Marshal(g.Description)
	if err != nil {
		return fmt.Errorf("encode gesture: %w", err)
	}
	g.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE gestures SET name = ?, definition = ?, updated_at = ? WHERE id = ?`,
		g.Name(), string(def), g.UpdatedAt, g.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a gesture from the database by its ID.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
