package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/engine"
)

// Profile is a named set of translation tuning parameters. Exactly one
// profile is active; the pipeline loads it at startup and whenever the
// active profile changes.
type Profile struct {
	ID        string
	Name      string
	Config    engine.Config
	Active    bool
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

const profileColumns = `id, name, smoothing, edge_margin, engage_below, release_above,
	tap_max_ms, hold_min_ms, drag_deadzone, flick_velocity,
	double_tap_cooldown_ms, max_engaged_age_ms, screen_width, screen_height,
	active, created_at, updated_at`

// seedDefault inserts the built-in default profile when the table is empty,
// so a fresh database always has an active profile.
func (r *ProfileRepository) seedDefault() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	p := &Profile{
		Name:   "default",
		Config: engine.DefaultConfig(),
		Active: true,
	}
	return r.Create(p)
}

// Create inserts a new profile into the database.
func (r *ProfileRepository) Create(p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.Exec(
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name,
		p.Config.Smoothing, p.Config.EdgeMargin, p.Config.EngageBelow, p.Config.ReleaseAbove,
		p.Config.TapMax.Milliseconds(), p.Config.HoldMin.Milliseconds(),
		p.Config.DragDeadzone, p.Config.FlickVelocity,
		p.Config.DoubleTapCooldown.Milliseconds(), p.Config.MaxEngagedAge.Milliseconds(),
		p.Config.ScreenWidth, p.Config.ScreenHeight,
		p.Active, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// GetActive retrieves the currently active profile.
func (r *ProfileRepository) GetActive() (*Profile, error) {
	row := r.db.QueryRow(`SELECT ` + profileColumns + ` FROM profiles WHERE active = 1 LIMIT 1`)
	return scanProfile(row)
}

// List retrieves all profiles ordered by name.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Update rewrites a profile's name and parameters.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	res, err := r.db.Exec(
		`UPDATE profiles SET name = ?, smoothing = ?, edge_margin = ?, engage_below = ?,
		 release_above = ?, tap_max_ms = ?, hold_min_ms = ?, drag_deadzone = ?,
		 flick_velocity = ?, double_tap_cooldown_ms = ?, max_engaged_age_ms = ?,
		 screen_width = ?, screen_height = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name,
		p.Config.Smoothing, p.Config.EdgeMargin, p.Config.EngageBelow, p.Config.ReleaseAbove,
		p.Config.TapMax.Milliseconds(), p.Config.HoldMin.Milliseconds(),
		p.Config.DragDeadzone, p.Config.FlickVelocity,
		p.Config.DoubleTapCooldown.Milliseconds(), p.Config.MaxEngagedAge.Milliseconds(),
		p.Config.ScreenWidth, p.Config.ScreenHeight,
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive marks the given profile active and all others inactive, in one
// transaction so there is never zero or more than one active profile.
func (r *ProfileRepository) SetActive(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE profiles SET active = 1, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`UPDATE profiles SET active = 0 WHERE id != ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a profile. The active profile cannot be deleted.
func (r *ProfileRepository) Delete(id string) error {
	p, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if p.Active {
		return errors.New("cannot delete the active profile")
	}

	_, err = r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	p := &Profile{}
	var tapMax, holdMin, cooldown, maxAge int64
	var active int

	err := row.Scan(
		&p.ID, &p.Name,
		&p.Config.Smoothing, &p.Config.EdgeMargin, &p.Config.EngageBelow, &p.Config.ReleaseAbove,
		&tapMax, &holdMin,
		&p.Config.DragDeadzone, &p.Config.FlickVelocity,
		&cooldown, &maxAge,
		&p.Config.ScreenWidth, &p.Config.ScreenHeight,
		&active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Config.TapMax = time.Duration(tapMax) * time.Millisecond
	p.Config.HoldMin = time.Duration(holdMin) * time.Millisecond
	p.Config.DoubleTapCooldown = time.Duration(cooldown) * time.Millisecond
	p.Config.MaxEngagedAge = time.Duration(maxAge) * time.Millisecond
	p.Active = active != 0
	return p, nil
}
