package store

import (
	"database/sql"
	"time"
)

// Event is one recorded gesture event.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Channel    string    `json:"channel"`
	ScreenX    int       `json:"screen_x"`
	ScreenY    int       `json:"screen_y"`
	DurationMs int64     `json:"duration_ms"`
	Magnitude  int       `json:"magnitude"`
	Forced     bool      `json:"forced"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventRepository provides access to the gesture event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert records one gesture event.
func (r *EventRepository) Insert(e Event) error {
	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, type, channel, screen_x, screen_y, duration_ms, magnitude, forced, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Type, e.Channel, e.ScreenX, e.ScreenY, e.DurationMs, e.Magnitude, e.Forced, e.CreatedAt,
	)
	return err
}

// Recent returns the newest events, most recent first.
func (r *EventRepository) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, type, channel, screen_x, screen_y, duration_ms, magnitude, forced, created_at
		 FROM gesture_events ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var forced int
		if err := rows.Scan(&e.ID, &e.Type, &e.Channel, &e.ScreenX, &e.ScreenY,
			&e.DurationMs, &e.Magnitude, &forced, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Forced = forced != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

// Prune deletes events older than the cutoff and returns how many went.
func (r *EventRepository) Prune(olderThan time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM gesture_events WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
