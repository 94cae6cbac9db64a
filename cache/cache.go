// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/danielhkuo/quickly-schedule/models"
)

var (
	ErrMiss = errors.New("cache miss")
	// ErrStale is returned by Set when the schedule was invalidated after
	// the generation passed to Set was read.
	ErrStale = errors.New("cache fill is stale")
)

// genTTL bounds how long an idle schedule keeps its generation counter. It
// must outlive any single fill.
const genTTL = 24 * time.Hour

// Bundle is the raw input of one schedule view, cached as a unit.
type Bundle struct {
	Schedule       models.Schedule             `json:"schedule"`
	Candidates     []models.Candidate          `json:"candidates"`
	Availabilities []models.AvailabilityRecord `json:"availabilities"`
	Comments       []models.Comment            `json:"comments"`
}

// Cache stores view bundles guarded by a per-schedule generation. A reader
// takes the generation before querying the store and passes it to Set; any
// Invalidate in between moves the generation and the fill is dropped.
type Cache interface {
	Get(ctx context.Context, scheduleID string) (*Bundle, error)
	Generation(ctx context.Context, scheduleID string) (int64, error)
	Set(ctx context.Context, gen int64, b *Bundle) error
	Invalidate(ctx context.Context, scheduleID string) error
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string) (*Bundle, error)      { return nil, ErrMiss }
func (Nop) Generation(context.Context, string) (int64, error) { return 0, nil }
func (Nop) Set(context.Context, int64, *Bundle) error         { return nil }
func (Nop) Invalidate(context.Context, string) error          { return nil }

type RedisCache struct {
	c   *redis.Client
	ttl time.Duration
}

func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{c: c, ttl: ttl}
}

func Key(scheduleID string) string {
	return "schedule:" + scheduleID + ":bundle"
}

func GenKey(scheduleID string) string {
	return "schedule:" + scheduleID + ":gen"
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGen(ctx context.Context, g getter, scheduleID string) (int64, error) {
	gen, err := g.Get(ctx, GenKey(scheduleID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return gen, nil
}

func (r *RedisCache) Get(ctx context.Context, scheduleID string) (*Bundle, error) {
	val, err := r.c.Get(ctx, Key(scheduleID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	var b Bundle
	if err := json.Unmarshal(val, &b); err != nil {
		return nil, fmt.Errorf("failed to decode cached bundle: %w", err)
	}
	return &b, nil
}

func (r *RedisCache) Generation(ctx context.Context, scheduleID string) (int64, error) {
	return readGen(ctx, r.c, scheduleID)
}

// Set stores b only while the schedule is still at generation gen. The
// generation key is watched so an Invalidate racing the write aborts it.
func (r *RedisCache) Set(ctx context.Context, gen int64, b *Bundle) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	id := b.Schedule.ScheduleID
	err = r.c.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readGen(ctx, tx, id)
		if err != nil {
			return err
		}
		if cur != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(id), payload, r.ttl)
			return nil
		})
		return err
	}, GenKey(id))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStale), errors.Is(err, redis.TxFailedErr):
		return ErrStale
	default:
		return fmt.Errorf("failed to write cache: %w", err)
	}
}

// Invalidate bumps the generation and drops the cached bundle.
func (r *RedisCache) Invalidate(ctx context.Context, scheduleID string) error {
	_, err := r.c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenKey(scheduleID))
		pipe.Expire(ctx, GenKey(scheduleID), genTTL)
		pipe.Del(ctx, Key(scheduleID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}
