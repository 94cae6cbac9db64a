// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Schedule API server.

Quickly Schedule is an availability poll: an owner lists candidate time slots,
participants mark each slot present, uncertain or absent, and everyone sees
the aggregated grid with per-slot tallies and comments.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=schedule.db IDENTITY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --identity-salt ...

A .env file in the working directory is loaded as well; real environment
variables win over it.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file/DSN or PostgreSQL connection string
  - IDENTITY_SALT (--identity-salt): Secret for identity token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - REDIS_ADDR (--redis): Redis for the schedule view cache (empty disables it)
  - CACHE_TTL: Cache entry lifetime (default: 30s)
  - LOG_LEVEL (--log-level), LOG_FORMAT (--log-format): zap logger settings

# Architecture

  - handlers: HTTP request handlers (schedules, responses)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, identity, JSON helpers
  - schedules: Lifecycle rules, ownership guard, error taxonomy
  - aggregate: Response matrix and tallies
  - store: CRUD verbs and transactions over database/sql
  - cache: Redis cache of per-schedule view inputs
  - export: XLSX rendering of the matrix
  - models: Records and request/response types
  - auth: Identity headers and token verification
  - db: Connection opening and schema creation
  - logging: zap logger factory
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
