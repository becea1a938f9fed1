package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the contest schema
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table
CREATE TABLE projects (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    team_name TEXT NOT NULL DEFAULT '',
    team_number TEXT NOT NULL DEFAULT '',
    team_url TEXT NOT NULL DEFAULT '',
    uv INTEGER NOT NULL DEFAULT 0 CHECK(uv >= 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_team_number ON projects(team_number);

-- Investor accounts
CREATE TABLE investors (
    id INTEGER PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    avatar TEXT NOT NULL DEFAULT '',
    initial_amount INTEGER NOT NULL CHECK(initial_amount >= 0),
    remaining_amount INTEGER NOT NULL,
    CHECK(remaining_amount >= 0 AND remaining_amount <= initial_amount)
);

-- Investments (append-only)
CREATE TABLE investments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    investor_id INTEGER NOT NULL,
    project_id INTEGER NOT NULL,
    amount INTEGER NOT NULL CHECK(amount > 0),
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (investor_id) REFERENCES investors(id),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX idx_investor_investments ON investments(investor_id);
CREATE INDEX idx_project_investments ON investments(project_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
