// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schedules

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-schedule/aggregate"
	"github.com/danielhkuo/quickly-schedule/cache"
	"github.com/danielhkuo/quickly-schedule/models"
	"github.com/danielhkuo/quickly-schedule/store"
)

type Service struct {
	store  *store.Store
	cache  cache.Cache
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Service)

// WithCache puts a view cache in front of the store reads of GetView.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithClock overrides the source of updatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st *store.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:  st,
		cache:  cache.Nop{},
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseCandidateNames splits raw on newlines and trims every line. Blank
// lines between names are kept as empty candidate names; text that is empty
// after trimming yields no names at all.
func ParseCandidateNames(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// normalizeID returns the canonical form of a schedule id, or ErrNotFound
// for anything that cannot name a schedule.
func normalizeID(scheduleID string) (string, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return "", ErrNotFound
	}
	return id.String(), nil
}

func validateName(name string) (string, error) {
	name = truncate(name, models.MaxScheduleNameLength)
	if strings.TrimSpace(name) == "" {
		return "", &ValidationError{Field: "scheduleName", Reason: "required"}
	}
	return name, nil
}

// classify passes domain errors through and wraps everything else as a
// StoreError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if IsHidden(err) || errors.As(err, &ve) {
		return err
	}
	return storeErr(op, err)
}

func (s *Service) invalidate(ctx context.Context, scheduleID string) {
	if err := s.cache.Invalidate(ctx, scheduleID); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.String("schedule_id", scheduleID), zap.Error(err))
	}
}

// Create stores a new schedule owned by owner together with its candidates
// and returns the new schedule id.
func (s *Service) Create(ctx context.Context, owner models.User, req models.ScheduleRequest) (string, error) {
	name, err := validateName(req.ScheduleName)
	if err != nil {
		return "", err
	}

	schedule := models.Schedule{
		ScheduleID:   s.newID(),
		ScheduleName: name,
		Memo:         req.Memo,
		CreatedBy:    owner.UserID,
		UpdatedAt:    s.now(),
	}
	names := ParseCandidateNames(req.Candidates)

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.UpsertUser(ctx, owner); err != nil {
			return err
		}
		if err := tx.InsertSchedule(ctx, schedule); err != nil {
			return err
		}
		return tx.BulkInsertCandidates(ctx, schedule.ScheduleID, names)
	})
	if err != nil {
		return "", classify("create schedule", err)
	}

	s.logger.Info("schedule created",
		zap.String("schedule_id", schedule.ScheduleID),
		zap.Int64("created_by", owner.UserID),
		zap.Int("candidates", len(names)),
	)
	return schedule.ScheduleID, nil
}

// Update overwrites name and memo of a schedule owned by viewer and appends
// any new candidates. Existing candidates are never renamed or removed.
func (s *Service) Update(ctx context.Context, scheduleID string, viewer models.User, req models.ScheduleRequest) error {
	id, err := normalizeID(scheduleID)
	if err != nil {
		return err
	}
	name, err := validateName(req.ScheduleName)
	if err != nil {
		return err
	}
	names := ParseCandidateNames(req.Candidates)

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		schedule, err := tx.FindSchedule(ctx, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if g := Authorize(schedule, err == nil, viewer); g != GuardOK {
			return g.Err()
		}

		schedule.ScheduleName = name
		schedule.Memo = req.Memo
		schedule.UpdatedAt = s.now()
		if err := tx.UpdateSchedule(ctx, schedule); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.BulkInsertCandidates(ctx, id, names)
	})
	if err != nil {
		if IsHidden(err) {
			s.logger.Info("schedule update refused", zap.String("schedule_id", id), zap.Int64("user_id", viewer.UserID), zap.Error(err))
		}
		return classify("update schedule", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("schedule updated", zap.String("schedule_id", id), zap.Int("new_candidates", len(names)))
	return nil
}

// cascade removes a schedule and every row that references it.
func cascade(ctx context.Context, tx *store.Tx, scheduleID string) error {
	if err := tx.DeleteComments(ctx, scheduleID); err != nil {
		return err
	}
	if err := tx.DeleteAvailabilities(ctx, scheduleID); err != nil {
		return err
	}
	if err := tx.DeleteCandidates(ctx, scheduleID); err != nil {
		return err
	}
	return tx.DeleteSchedule(ctx, scheduleID)
}

// Delete removes a schedule owned by viewer with all of its candidates,
// availabilities and comments in a single transaction.
func (s *Service) Delete(ctx context.Context, scheduleID string, viewer models.User) error {
	id, err := normalizeID(scheduleID)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		schedule, err := tx.FindSchedule(ctx, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if g := Authorize(schedule, err == nil, viewer); g != GuardOK {
			return g.Err()
		}
		return cascade(ctx, tx, id)
	})
	if err != nil {
		if IsHidden(err) {
			s.logger.Info("schedule delete refused", zap.String("schedule_id", id), zap.Int64("user_id", viewer.UserID), zap.Error(err))
		}
		return classify("delete schedule", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("schedule deleted", zap.String("schedule_id", id))
	return nil
}

// DeleteAggregate removes the schedule and all dependent rows without an
// ownership check, then calls done. prior is an error raised before the
// cleanup started: the cleanup still runs, and done receives prior combined
// with any cleanup failure.
func (s *Service) DeleteAggregate(ctx context.Context, scheduleID string, prior error, done func(error)) {
	var err error
	if id, idErr := normalizeID(scheduleID); idErr == nil {
		scheduleID = id
		err = s.store.WithTx(ctx, func(tx *store.Tx) error {
			return cascade(ctx, tx, scheduleID)
		})
	}
	if err != nil {
		s.logger.Error("schedule cascade delete failed", zap.String("schedule_id", scheduleID), zap.Error(err))
	} else {
		s.invalidate(ctx, scheduleID)
	}

	if done != nil {
		done(multierr.Append(prior, storeErr("delete schedule aggregate", err)))
	}
}

// load returns the rows of one schedule view, from the cache when possible.
func (s *Service) load(ctx context.Context, scheduleID string) (*cache.Bundle, error) {
	b, err := s.cache.Get(ctx, scheduleID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("schedule cache unavailable", zap.String("schedule_id", scheduleID), zap.Error(err))
	}

	// Taken before the store reads so a write landing mid-fill voids the fill.
	gen, genErr := s.cache.Generation(ctx, scheduleID)

	schedule, err := s.store.FindSchedule(ctx, scheduleID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("load schedule", err)
	}
	candidates, err := s.store.FindCandidates(ctx, scheduleID)
	if err != nil {
		return nil, storeErr("load candidates", err)
	}
	availabilities, err := s.store.FindAvailabilities(ctx, scheduleID)
	if err != nil {
		return nil, storeErr("load availabilities", err)
	}
	comments, err := s.store.FindComments(ctx, scheduleID)
	if err != nil {
		return nil, storeErr("load comments", err)
	}

	b = &cache.Bundle{
		Schedule:       schedule,
		Candidates:     candidates,
		Availabilities: availabilities,
		Comments:       comments,
	}
	if genErr != nil {
		return b, nil
	}
	switch err := s.cache.Set(ctx, gen, b); {
	case err == nil:
	case errors.Is(err, cache.ErrStale):
		s.logger.Debug("schedule changed during cache fill", zap.String("schedule_id", scheduleID))
	default:
		s.logger.Warn("failed to cache schedule", zap.String("schedule_id", scheduleID), zap.Error(err))
	}
	return b, nil
}

// GetView builds the render-ready response matrix of a schedule for viewer.
func (s *Service) GetView(ctx context.Context, scheduleID string, viewer models.User) (models.ScheduleView, error) {
	id, err := normalizeID(scheduleID)
	if err != nil {
		return models.ScheduleView{}, err
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return models.ScheduleView{}, err
	}

	m := aggregate.Build(aggregate.Input{
		Candidates:     b.Candidates,
		Availabilities: b.Availabilities,
		Comments:       b.Comments,
		Viewer:         viewer,
	})
	s.logger.Debug("schedule view built",
		zap.String("schedule_id", id),
		zap.Int("participants", len(m.Participants)),
		zap.Int("candidates", len(m.Candidates)),
		zap.Int("cells", m.Size()),
	)

	view := models.ScheduleView{
		Schedule:     b.Schedule,
		Viewer:       viewer,
		IsOwner:      b.Schedule.CreatedBy == viewer.UserID,
		Candidates:   m.Candidates,
		Participants: m.Participants,
		Rows:         m.Rows(),
		Summary:      aggregate.Tally(m),
	}

	owner, err := s.store.FindUser(ctx, b.Schedule.CreatedBy)
	switch {
	case err == nil:
		view.Owner = &owner
	case errors.Is(err, store.ErrNotFound):
	default:
		return models.ScheduleView{}, storeErr("load owner", err)
	}

	return view, nil
}

// GetEditable returns the schedule and its candidates when viewer owns it.
func (s *Service) GetEditable(ctx context.Context, scheduleID string, viewer models.User) (models.ScheduleWithCandidates, error) {
	id, err := normalizeID(scheduleID)
	if err != nil {
		return models.ScheduleWithCandidates{}, err
	}

	schedule, err := s.store.FindSchedule(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.ScheduleWithCandidates{}, storeErr("load schedule", err)
	}
	if g := Authorize(schedule, err == nil, viewer); g != GuardOK {
		return models.ScheduleWithCandidates{}, g.Err()
	}

	candidates, err := s.store.FindCandidates(ctx, id)
	if err != nil {
		return models.ScheduleWithCandidates{}, storeErr("load candidates", err)
	}

	return models.ScheduleWithCandidates{Schedule: schedule, Candidates: candidates}, nil
}

// SetAvailability records user's answer for one candidate of a schedule,
// replacing any earlier answer. value must be 0, 1 or 2.
func (s *Service) SetAvailability(ctx context.Context, scheduleID string, user models.User, candidateID int64, value int) (models.Availability, error) {
	a := models.Availability(value)
	if !a.Valid() {
		return 0, &ValidationError{Field: "availability", Reason: "must be 0, 1 or 2"}
	}
	id, err := normalizeID(scheduleID)
	if err != nil {
		return 0, err
	}

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.FindSchedule(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if _, err := tx.FindCandidate(ctx, id, candidateID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.UpsertUser(ctx, user); err != nil {
			return err
		}
		return tx.UpsertAvailability(ctx, models.AvailabilityRecord{
			ScheduleID:   id,
			UserID:       user.UserID,
			CandidateID:  candidateID,
			Availability: a,
		})
	})
	if err != nil {
		return 0, classify("set availability", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("availability set",
		zap.String("schedule_id", id),
		zap.Int64("user_id", user.UserID),
		zap.Int64("candidate_id", candidateID),
		zap.Stringer("availability", a),
	)
	return a, nil
}

// SetComment records user's comment on a schedule, replacing any earlier one.
// Comments longer than the stored width are truncated.
func (s *Service) SetComment(ctx context.Context, scheduleID string, user models.User, text string) (string, error) {
	id, err := normalizeID(scheduleID)
	if err != nil {
		return "", err
	}
	text = truncate(text, models.MaxCommentLength)

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.FindSchedule(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.UpsertUser(ctx, user); err != nil {
			return err
		}
		return tx.UpsertComment(ctx, models.Comment{ScheduleID: id, UserID: user.UserID, Comment: text})
	})
	if err != nil {
		return "", classify("set comment", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("comment set", zap.String("schedule_id", id), zap.Int64("user_id", user.UserID))
	return text, nil
}

// ListMine returns the schedules viewer created, most recently updated first.
func (s *Service) ListMine(ctx context.Context, viewer models.User) ([]models.Schedule, error) {
	schedules, err := s.store.FindSchedulesByOwner(ctx, viewer.UserID)
	if err != nil {
		return nil, storeErr("list schedules", err)
	}
	return schedules, nil
}
