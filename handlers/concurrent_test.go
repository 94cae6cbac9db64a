// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-schedule/models"
	"github.com/danielhkuo/quickly-schedule/testutil"
)

// TestConcurrentAvailabilitySubmissions verifies that simultaneous answers
// from different users each land exactly once.
func TestConcurrentAvailabilitySubmissions(t *testing.T) {
	env := newTestEnv(t)
	scheduleID := testutil.CreateTestSchedule(t, env.db, alice, "Busy week")
	candidates := []int64{
		testutil.AddTestCandidate(t, env.db, scheduleID, "Mon"),
		testutil.AddTestCandidate(t, env.db, scheduleID, "Tue"),
		testutil.AddTestCandidate(t, env.db, scheduleID, "Wed"),
	}

	numUsers := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			user := models.User{UserID: int64(100 + idx), Username: "user" + string(rune('A'+idx))}
			for j, candidateID := range candidates {
				w := env.do(env.responses.SetAvailability, user, "POST", "/",
					models.SetAvailabilityRequest{Availability: intPtr((idx + j) % 3)},
					"id", scheduleID, "userId", itoa(user.UserID), "candidateId", itoa(candidateID))
				if w.Code == http.StatusOK {
					successCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()

	expected := numUsers * len(candidates)
	if int(successCount.Load()) != expected {
		t.Errorf("Expected %d successful submissions, got %d", expected, successCount.Load())
	}
	if n := testutil.CountRows(t, env.db, "availabilities", scheduleID); n != expected {
		t.Errorf("Expected %d availability rows, got %d", expected, n)
	}
}

// TestConcurrentResubmissions verifies that one user hammering the same cell
// never produces more than one row.
func TestConcurrentResubmissions(t *testing.T) {
	env := newTestEnv(t)
	scheduleID := testutil.CreateTestSchedule(t, env.db, alice, "Trip")
	mon := testutil.AddTestCandidate(t, env.db, scheduleID, "Mon")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			env.do(env.responses.SetAvailability, bob, "POST", "/",
				models.SetAvailabilityRequest{Availability: intPtr(value)},
				"id", scheduleID, "userId", itoa(bob.UserID), "candidateId", itoa(mon))
		}(i % 3)
	}
	wg.Wait()

	if n := testutil.CountRows(t, env.db, "availabilities", scheduleID); n != 1 {
		t.Errorf("Expected exactly 1 availability row, got %d", n)
	}
}

// TestConcurrentDeleteAndAnswer verifies that racing a delete against answers
// never leaves rows behind for a deleted schedule.
func TestConcurrentDeleteAndAnswer(t *testing.T) {
	env := newTestEnv(t)
	scheduleID := testutil.CreateTestSchedule(t, env.db, alice, "Trip")
	mon := testutil.AddTestCandidate(t, env.db, scheduleID, "Mon")

	var wg sync.WaitGroup
	var deleteCode atomic.Int32
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := env.do(env.schedules.DeleteSchedule, alice, "DELETE", "/schedules/"+scheduleID, nil, "id", scheduleID)
		deleteCode.Store(int32(w.Code))
	}()
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			user := models.User{UserID: int64(200 + idx), Username: "racer"}
			w := env.do(env.responses.SetAvailability, user, "POST", "/",
				models.SetAvailabilityRequest{Availability: intPtr(2)},
				"id", scheduleID, "userId", itoa(user.UserID), "candidateId", itoa(mon))
			if w.Code != http.StatusOK && w.Code != http.StatusNotFound {
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if deleteCode.Load() != http.StatusSeeOther {
		t.Fatalf("Expected delete to succeed, got %d", deleteCode.Load())
	}
	for _, table := range []string{"schedules", "candidates", "availabilities"} {
		if n := testutil.CountRows(t, env.db, table, scheduleID); n != 0 {
			t.Errorf("Expected no %s rows, got %d", table, n)
		}
	}
}
