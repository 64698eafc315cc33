package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: applications and their hiring timelines
	{
		`CREATE TABLE applications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_title TEXT NOT NULL,
			company TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			salary TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'applied',
			match_score INTEGER NOT NULL DEFAULT 0 CHECK (match_score BETWEEN 0 AND 100),
			applied_at TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_applications_status ON applications(status)`,

		`CREATE TABLE timeline_entries (
			application_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			stage TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TEXT,
			PRIMARY KEY (application_id, position),
			FOREIGN KEY (application_id) REFERENCES applications(id)
		)`,

		`CREATE TABLE application_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			application_id INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			stage TEXT,
			details TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			FOREIGN KEY (application_id) REFERENCES applications(id)
		)`,
		`CREATE INDEX idx_application_events_app ON application_events(application_id, id)`,
	},

	// Migration 2: key/value session flags and the request log
	{
		`CREATE TABLE settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE request_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			duration_ms INTEGER,
			correlation_id TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_request_log_time ON request_log(created_at)`,
	},
}
