// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache keeps the raw rows of a schedule view in Redis so repeated
// views skip the four store reads. Entries are JSON under
// "schedule:{id}:bundle", expire after a TTL, and are deleted after every
// successful write to the schedule. Nop is used when no Redis is configured.
package cache
