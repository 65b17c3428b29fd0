package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Profiles table - named sets of translation tuning parameters.
		// Exactly one profile is active at a time.
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			smoothing REAL NOT NULL,
			edge_margin REAL NOT NULL,
			engage_below REAL NOT NULL,
			release_above REAL NOT NULL,
			tap_max_ms INTEGER NOT NULL,
			hold_min_ms INTEGER NOT NULL,
			drag_deadzone REAL NOT NULL,
			flick_velocity REAL NOT NULL,
			double_tap_cooldown_ms INTEGER NOT NULL,
			max_engaged_age_ms INTEGER NOT NULL,
			screen_width INTEGER NOT NULL,
			screen_height INTEGER NOT NULL,
			active INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Gesture events table - the recent action history.
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			channel TEXT NOT NULL,
			screen_x INTEGER NOT NULL,
			screen_y INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			magnitude INTEGER NOT NULL DEFAULT 0,
			forced INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_gesture_events_created_at ON gesture_events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_active ON profiles(active)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
