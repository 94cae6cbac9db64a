// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schedules

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-schedule/models"
)

var (
	ErrNotFound = errors.New("schedule not found")
	ErrNotOwner = errors.New("schedule not owned by requester")
)

// ValidationError rejects malformed input before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreError is a persistence failure that is not otherwise classified.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// Guard is the tagged result of an ownership check.
type Guard int

const (
	GuardOK Guard = iota
	GuardNotOwner
	GuardNotFound
)

func (g Guard) String() string {
	switch g {
	case GuardOK:
		return "ok"
	case GuardNotOwner:
		return "not_owner"
	case GuardNotFound:
		return "not_found"
	}
	return fmt.Sprintf("Guard(%d)", int(g))
}

// Err maps the guard to its error; GuardOK yields nil.
func (g Guard) Err() error {
	switch g {
	case GuardOK:
		return nil
	case GuardNotOwner:
		return ErrNotOwner
	default:
		return ErrNotFound
	}
}

// Authorize decides whether viewer may edit or delete schedule. found is
// false when the schedule lookup came back empty.
func Authorize(schedule models.Schedule, found bool, viewer models.User) Guard {
	if !found {
		return GuardNotFound
	}
	if schedule.CreatedBy != viewer.UserID {
		return GuardNotOwner
	}
	return GuardOK
}

// IsHidden reports whether err must be presented as "not found or not
// permitted". NotFound and NotOwner are indistinguishable to callers.
func IsHidden(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotOwner)
}
