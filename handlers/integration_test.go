// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/quickly-schedule/models"
	"github.com/danielhkuo/quickly-schedule/testutil"
)

// TestFullScheduleWorkflow tests the complete end-to-end workflow:
// 1. Owner creates a schedule
// 2. Participants answer candidates
// 3. A participant changes an answer and comments
// 4. Owner edits the schedule and appends a candidate
// 5. Everyone reads the matrix
// 6. Owner deletes the schedule
func TestFullScheduleWorkflow(t *testing.T) {
	env := newTestEnv(t)
	carol := models.User{UserID: 3, Username: "carol"}

	// Step 1: Create a schedule
	w := env.do(env.schedules.CreateSchedule, alice, "POST", "/schedules", models.ScheduleRequest{
		ScheduleName: "Team dinner",
		Memo:         "Pick the nights\r\nthat work",
		Candidates:   "Mon\nTue\nWed",
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Step 1 - Create schedule failed: %d - %s", w.Code, w.Body.String())
	}
	var createResp models.CreateScheduleResponse
	testutil.AssertJSON(t, w, &createResp)
	scheduleID := createResp.ScheduleID
	t.Logf("Step 1 - Created schedule: %s", scheduleID)

	w = env.do(env.schedules.GetEditable, alice, "GET", "/schedules/"+scheduleID+"/edit", nil, "id", scheduleID)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Read back failed: %d - %s", w.Code, w.Body.String())
	}
	var editable models.ScheduleWithCandidates
	testutil.AssertJSON(t, w, &editable)
	if len(editable.Candidates) != 3 {
		t.Fatalf("Step 1 - Expected 3 candidates, got %d", len(editable.Candidates))
	}
	if editable.Schedule.Memo != "Pick the nights\r\nthat work" {
		t.Errorf("Step 1 - Memo not stored verbatim: %q", editable.Schedule.Memo)
	}
	mon, tue, wed := editable.Candidates[0].CandidateID, editable.Candidates[1].CandidateID, editable.Candidates[2].CandidateID

	// Step 2: Participants answer
	// bob: Mon present, Tue uncertain
	// carol: Mon present, Wed present
	answers := []struct {
		user        models.User
		candidateID int64
		value       int
	}{
		{bob, mon, 2},
		{bob, tue, 1},
		{carol, mon, 2},
		{carol, wed, 2},
	}
	for _, a := range answers {
		w := env.do(env.responses.SetAvailability, a.user, "POST", "/", models.SetAvailabilityRequest{Availability: intPtr(a.value)},
			"id", scheduleID, "userId", itoa(a.user.UserID), "candidateId", itoa(a.candidateID))
		if w.Code != http.StatusOK {
			t.Fatalf("Step 2 - Answer by %s failed: %d - %s", a.user.Username, w.Code, w.Body.String())
		}
	}
	t.Logf("Step 2 - %d answers recorded", len(answers))

	// Step 3: carol changes her mind on Wed and comments
	w = env.do(env.responses.SetAvailability, carol, "POST", "/", models.SetAvailabilityRequest{Availability: intPtr(0)},
		"id", scheduleID, "userId", itoa(carol.UserID), "candidateId", itoa(wed))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Resubmit failed: %d - %s", w.Code, w.Body.String())
	}
	w = env.do(env.responses.SetComment, carol, "POST", "/", models.SetCommentRequest{Comment: strPtr("Wed is out now")},
		"id", scheduleID, "userId", itoa(carol.UserID))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Comment failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 4: Owner renames and appends a candidate
	w = env.do(env.schedules.UpdateSchedule, alice, "POST", "/schedules/"+scheduleID+"/update", models.ScheduleRequest{
		ScheduleName: "Team dinner (final)",
		Memo:         "Pick the nights",
		Candidates:   "Thu",
	}, "id", scheduleID)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Step 4 - Update failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 5: Read the matrix as the owner
	w = env.do(env.schedules.GetSchedule, alice, "GET", "/schedules/"+scheduleID, nil, "id", scheduleID)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Get schedule failed: %d - %s", w.Code, w.Body.String())
	}
	var view models.ScheduleView
	testutil.AssertJSON(t, w, &view)

	if view.Schedule.ScheduleName != "Team dinner (final)" {
		t.Errorf("Step 5 - Expected renamed schedule, got %q", view.Schedule.ScheduleName)
	}
	if len(view.Candidates) != 4 {
		t.Fatalf("Step 5 - Expected 4 candidates, got %d", len(view.Candidates))
	}
	if len(view.Rows) != 3 {
		t.Fatalf("Step 5 - Expected rows for alice, bob and carol, got %d", len(view.Rows))
	}
	wantCells := map[string][]models.Availability{
		"alice": {0, 0, 0, 0},
		"bob":   {2, 1, 0, 0},
		"carol": {2, 0, 0, 0},
	}
	for _, row := range view.Rows {
		want := wantCells[row.Participant.Username]
		for i := range want {
			if row.Cells[i] != want[i] {
				t.Errorf("Step 5 - %s cell %d: expected %d, got %d", row.Participant.Username, i, want[i], row.Cells[i])
			}
		}
	}
	if view.Rows[2].Comment == nil || *view.Rows[2].Comment != "Wed is out now" {
		t.Error("Step 5 - Expected carol's comment on her row")
	}
	if view.Summary[0].Rank != 1 || view.Summary[0].Present != 2 {
		t.Errorf("Step 5 - Expected Mon ranked first with 2 present, got %+v", view.Summary[0])
	}
	t.Logf("Step 5 - Matrix has %d rows x %d candidates", len(view.Rows), len(view.Candidates))

	// Step 6: Delete
	w = env.do(env.schedules.DeleteSchedule, alice, "DELETE", "/schedules/"+scheduleID, nil, "id", scheduleID)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Step 6 - Delete failed: %d - %s", w.Code, w.Body.String())
	}
	for _, table := range []string{"schedules", "candidates", "availabilities", "comments"} {
		if n := testutil.CountRows(t, env.db, table, scheduleID); n != 0 {
			t.Errorf("Step 6 - Expected no %s rows, got %d", table, n)
		}
	}

	w = env.do(env.schedules.GetSchedule, bob, "GET", "/schedules/"+scheduleID, nil, "id", scheduleID)
	if w.Code != http.StatusNotFound {
		t.Errorf("Step 6 - Expected 404 after delete, got %d", w.Code)
	}
}
