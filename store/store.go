// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-schedule/models"
)

// ErrNotFound is returned by the Find* verbs that expect exactly one row.
var ErrNotFound = errors.New("record not found")

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds every CRUD verb; it runs against a pool or a transaction.
type queries struct {
	q querier
}

// Store is the entity store backed by a connection pool.
type Store struct {
	queries
	db *sql.DB
}

// Tx is the entity store bound to one transaction.
type Tx struct {
	queries
	tx *sql.Tx
}

func New(db *sql.DB) *Store {
	return &Store{queries: queries{q: db}, db: db}
}

// WithTx runs fn in a transaction, committing when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{queries: queries{q: sqlTx}, tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Users

func (s queries) UpsertUser(ctx context.Context, u models.User) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username
	`, u.UserID, u.Username)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (s queries) FindUser(ctx context.Context, userID int64) (models.User, error) {
	var u models.User
	err := s.q.QueryRowContext(ctx, `
		SELECT user_id, username FROM users WHERE user_id = $1
	`, userID).Scan(&u.UserID, &u.Username)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// Schedules

func (s queries) InsertSchedule(ctx context.Context, sc models.Schedule) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO schedules (schedule_id, schedule_name, memo, created_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sc.ScheduleID, sc.ScheduleName, sc.Memo, sc.CreatedBy, sc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

func (s queries) FindSchedule(ctx context.Context, scheduleID string) (models.Schedule, error) {
	var sc models.Schedule
	err := s.q.QueryRowContext(ctx, `
		SELECT schedule_id, schedule_name, memo, created_by, updated_at
		FROM schedules
		WHERE schedule_id = $1
	`, scheduleID).Scan(&sc.ScheduleID, &sc.ScheduleName, &sc.Memo, &sc.CreatedBy, &sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Schedule{}, ErrNotFound
	}
	if err != nil {
		return models.Schedule{}, fmt.Errorf("failed to query schedule: %w", err)
	}
	return sc, nil
}

// UpdateSchedule overwrites name, memo and updated_at. created_by is never touched.
func (s queries) UpdateSchedule(ctx context.Context, sc models.Schedule) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE schedules
		SET schedule_name = $1, memo = $2, updated_at = $3
		WHERE schedule_id = $4
	`, sc.ScheduleName, sc.Memo, sc.UpdatedAt, sc.ScheduleID)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s queries) DeleteSchedule(ctx context.Context, scheduleID string) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM schedules WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

// FindSchedulesByOwner lists a user's schedules, most recently updated first.
func (s queries) FindSchedulesByOwner(ctx context.Context, userID int64) ([]models.Schedule, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT schedule_id, schedule_name, memo, created_by, updated_at
		FROM schedules
		WHERE created_by = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.Schedule{}
	for rows.Next() {
		var sc models.Schedule
		if err := rows.Scan(&sc.ScheduleID, &sc.ScheduleName, &sc.Memo, &sc.CreatedBy, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, sc)
	}
	return schedules, rows.Err()
}

// Candidates

// BulkInsertCandidates appends one candidate per name, in order.
func (s queries) BulkInsertCandidates(ctx context.Context, scheduleID string, names []string) error {
	for _, name := range names {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO candidates (candidate_name, schedule_id)
			VALUES ($1, $2)
		`, name, scheduleID)
		if err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
	}
	return nil
}

// FindCandidates returns a schedule's candidates by ascending candidate_id.
func (s queries) FindCandidates(ctx context.Context, scheduleID string) ([]models.Candidate, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT candidate_id, candidate_name, schedule_id
		FROM candidates
		WHERE schedule_id = $1
		ORDER BY candidate_id ASC
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.CandidateID, &c.CandidateName, &c.ScheduleID); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// FindCandidate returns ErrNotFound unless the candidate belongs to scheduleID.
func (s queries) FindCandidate(ctx context.Context, scheduleID string, candidateID int64) (models.Candidate, error) {
	var c models.Candidate
	err := s.q.QueryRowContext(ctx, `
		SELECT candidate_id, candidate_name, schedule_id
		FROM candidates
		WHERE schedule_id = $1 AND candidate_id = $2
	`, scheduleID, candidateID).Scan(&c.CandidateID, &c.CandidateName, &c.ScheduleID)
	if err == sql.ErrNoRows {
		return models.Candidate{}, ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

func (s queries) DeleteCandidates(ctx context.Context, scheduleID string) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM candidates WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to delete candidates: %w", err)
	}
	return nil
}

// Availabilities

// UpsertAvailability stores one answer; a resubmission replaces the prior value.
func (s queries) UpsertAvailability(ctx context.Context, a models.AvailabilityRecord) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO availabilities (schedule_id, user_id, candidate_id, availability)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (schedule_id, user_id, candidate_id) DO UPDATE SET availability = EXCLUDED.availability
	`, a.ScheduleID, a.UserID, a.CandidateID, int(a.Availability))
	if err != nil {
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}

// FindAvailabilities returns every answer for a schedule joined with the
// responder's username, ordered by username then user and candidate id.
func (s queries) FindAvailabilities(ctx context.Context, scheduleID string) ([]models.AvailabilityRecord, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT a.schedule_id, a.user_id, a.candidate_id, a.availability, u.username
		FROM availabilities a
		JOIN users u ON u.user_id = a.user_id
		WHERE a.schedule_id = $1
		ORDER BY u.username ASC, a.user_id ASC, a.candidate_id ASC
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availabilities: %w", err)
	}
	defer rows.Close()

	availabilities := []models.AvailabilityRecord{}
	for rows.Next() {
		var a models.AvailabilityRecord
		var value int
		if err := rows.Scan(&a.ScheduleID, &a.UserID, &a.CandidateID, &value, &a.Username); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		a.Availability = models.Availability(value)
		availabilities = append(availabilities, a)
	}
	return availabilities, rows.Err()
}

func (s queries) DeleteAvailabilities(ctx context.Context, scheduleID string) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM availabilities WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to delete availabilities: %w", err)
	}
	return nil
}

// Comments

func (s queries) UpsertComment(ctx context.Context, c models.Comment) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO comments (schedule_id, user_id, comment)
		VALUES ($1, $2, $3)
		ON CONFLICT (schedule_id, user_id) DO UPDATE SET comment = EXCLUDED.comment
	`, c.ScheduleID, c.UserID, c.Comment)
	if err != nil {
		return fmt.Errorf("failed to upsert comment: %w", err)
	}
	return nil
}

func (s queries) FindComments(ctx context.Context, scheduleID string) ([]models.Comment, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT schedule_id, user_id, comment
		FROM comments
		WHERE schedule_id = $1
		ORDER BY user_id ASC
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ScheduleID, &c.UserID, &c.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s queries) DeleteComments(ctx context.Context, scheduleID string) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM comments WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}
