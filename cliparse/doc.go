// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - IdentitySalt: Secret for identity token HMAC (required)
  - RedisAddr: Redis address for the view cache (optional)
  - CacheTTL: lifetime of cached schedule data (default: 30s)
  - LogLevel, LogFormat: zap logger settings

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	--redis          Redis address
	--identity-salt  Identity token salt
	--log-level      debug, info, warn, error
	--log-format     json or console

# Environment Variables

Flags fall back to environment variables, which may also come from a
.env file in the working directory:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	REDIS_ADDR    → --redis
	IDENTITY_SALT → --identity-salt
	LOG_LEVEL     → --log-level
	LOG_FORMAT    → --log-format
	CACHE_TTL     (Go duration, e.g. "45s")

CLI flags take precedence over environment variables.
*/
package cliparse
