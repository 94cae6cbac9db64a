// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Connections

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite):

	conn, err := db.Open(db.TypeSQLite, "file:schedule.db")

SQLite connections always run with foreign keys enabled. In-memory SQLite
databases are pinned to a single connection.

# Schema Creation

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: identities, upserted on every authenticated request
  - schedules: name, memo, owner and last update
  - candidates: proposed slots, auto-increment id
  - availabilities: one row per (schedule, user, candidate)
  - comments: one row per (schedule, user)

# Relationships

	users 1──* schedules (created_by)
	schedules 1──* candidates
	schedules 1──* availabilities *──1 candidates
	schedules 1──* comments

Foreign keys do not cascade; deleting a schedule removes its dependents
explicitly inside one transaction (see package schedules).
*/
package db
