// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types.
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Open opens and pings a connection for the given database type.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypePostgres:
	case TypeSQLite:
		url = withForeignKeys(url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory SQLite database lives and dies with its connection.
	if dbType == TypeSQLite && strings.Contains(url, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

func withForeignKeys(url string) string {
	if strings.Contains(url, "foreign_keys") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	ddl := postgresSchema
	if dbType == TypeSQLite {
		ddl = sqliteSchema
	}

	_, err := db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    user_id BIGINT PRIMARY KEY,
    username TEXT NOT NULL
);

-- Schedules
CREATE TABLE IF NOT EXISTS schedules (
    schedule_id UUID PRIMARY KEY,
    schedule_name VARCHAR(255) NOT NULL,
    memo TEXT NOT NULL DEFAULT '',
    created_by BIGINT NOT NULL REFERENCES users(user_id),
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_schedules_created_by ON schedules(created_by);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    candidate_id BIGSERIAL PRIMARY KEY,
    candidate_name TEXT NOT NULL,
    schedule_id UUID NOT NULL REFERENCES schedules(schedule_id)
);

CREATE INDEX IF NOT EXISTS idx_candidates_schedule_id ON candidates(schedule_id);

-- Availabilities
CREATE TABLE IF NOT EXISTS availabilities (
    schedule_id UUID NOT NULL REFERENCES schedules(schedule_id),
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    candidate_id BIGINT NOT NULL REFERENCES candidates(candidate_id),
    availability SMALLINT NOT NULL DEFAULT 0 CHECK (availability IN (0, 1, 2)),
    PRIMARY KEY (schedule_id, user_id, candidate_id)
);

CREATE INDEX IF NOT EXISTS idx_availabilities_schedule_id ON availabilities(schedule_id);

-- Comments
CREATE TABLE IF NOT EXISTS comments (
    schedule_id UUID NOT NULL REFERENCES schedules(schedule_id),
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    comment VARCHAR(255) NOT NULL,
    PRIMARY KEY (schedule_id, user_id)
);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY,
    username TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schedules (
    schedule_id TEXT PRIMARY KEY,
    schedule_name TEXT NOT NULL,
    memo TEXT NOT NULL DEFAULT '',
    created_by INTEGER NOT NULL REFERENCES users(user_id),
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_schedules_created_by ON schedules(created_by);

CREATE TABLE IF NOT EXISTS candidates (
    candidate_id INTEGER PRIMARY KEY AUTOINCREMENT,
    candidate_name TEXT NOT NULL,
    schedule_id TEXT NOT NULL REFERENCES schedules(schedule_id)
);

CREATE INDEX IF NOT EXISTS idx_candidates_schedule_id ON candidates(schedule_id);

CREATE TABLE IF NOT EXISTS availabilities (
    schedule_id TEXT NOT NULL REFERENCES schedules(schedule_id),
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    candidate_id INTEGER NOT NULL REFERENCES candidates(candidate_id),
    availability INTEGER NOT NULL DEFAULT 0 CHECK (availability IN (0, 1, 2)),
    PRIMARY KEY (schedule_id, user_id, candidate_id)
);

CREATE INDEX IF NOT EXISTS idx_availabilities_schedule_id ON availabilities(schedule_id);

CREATE TABLE IF NOT EXISTS comments (
    schedule_id TEXT NOT NULL REFERENCES schedules(schedule_id),
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    comment TEXT NOT NULL,
    PRIMARY KEY (schedule_id, user_id)
);
`
