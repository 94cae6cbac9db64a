// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn, err := Open(TypeSQLite, "file::memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, CreateSchema(conn, TypeSQLite))
	require.NoError(t, CreateSchema(conn, TypeSQLite))

	for _, table := range []string{"users", "schedules", "candidates", "availabilities", "comments"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
		assert.Equal(t, table, name)
	}
}

func TestCreateSchema_RejectsInvalidAvailability(t *testing.T) {
	conn, err := Open(TypeSQLite, "file::memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, CreateSchema(conn, TypeSQLite))

	_, err = conn.Exec(`INSERT INTO users (user_id, username) VALUES (1, 'alice')`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO schedules (schedule_id, schedule_name, memo, created_by, updated_at)
		VALUES ('s1', 'Trip', '', 1, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO candidates (candidate_name, schedule_id) VALUES ('Mon', 's1')`)
	require.NoError(t, err)

	_, err = conn.Exec(`INSERT INTO availabilities (schedule_id, user_id, candidate_id, availability) VALUES ('s1', 1, 1, 3)`)
	assert.Error(t, err)
}

func TestCreateSchema_EnforcesForeignKeys(t *testing.T) {
	conn, err := Open(TypeSQLite, "file::memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, CreateSchema(conn, TypeSQLite))

	_, err = conn.Exec(`INSERT INTO candidates (candidate_name, schedule_id) VALUES ('orphan', 'missing')`)
	assert.Error(t, err)
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open("mysql", "user@/db")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)", withForeignKeys("file::memory:"))
	assert.Equal(t, "file:x.db?cache=shared&_pragma=foreign_keys(1)", withForeignKeys("file:x.db?cache=shared"))
	assert.Equal(t, "file:x.db?_pragma=foreign_keys(0)", withForeignKeys("file:x.db?_pragma=foreign_keys(0)"))
}
