package store

import "database/sql"

// Store holds all sub-stores used by the application.
type Store struct {
	DB           *sql.DB
	Applications ApplicationStore
	Settings     SettingsStore
	Requests     RequestLogStore
}

// New creates a Store with all sub-stores initialized.
func New(db *sql.DB) *Store {
	return &Store{
		DB:           db,
		Applications: NewSQLiteApplicationStore(db),
		Settings:     NewSQLiteSettingsStore(db),
		Requests:     NewSQLiteRequestLogStore(db),
	}
}
