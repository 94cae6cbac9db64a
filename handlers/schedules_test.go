// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/quickly-schedule/export"
	"github.com/danielhkuo/quickly-schedule/models"
	"github.com/danielhkuo/quickly-schedule/testutil"
)

func TestCreateSchedule(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid schedule",
			body:           models.ScheduleRequest{ScheduleName: "Trip", Memo: "m", Candidates: "Mon\nTue"},
			expectedStatus: http.StatusSeeOther,
		},
		{
			name:           "no candidates",
			body:           models.ScheduleRequest{ScheduleName: "Trip"},
			expectedStatus: http.StatusSeeOther,
		},
		{
			name:           "missing name",
			body:           models.ScheduleRequest{Candidates: "Mon"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(env.schedules.CreateSchedule, alice, "POST", "/schedules", tt.body)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusSeeOther {
				var resp models.CreateScheduleResponse
				testutil.AssertJSON(t, w, &resp)
				if _, err := uuid.Parse(resp.ScheduleID); err != nil {
					t.Errorf("Expected UUID schedule_id, got %q", resp.ScheduleID)
				}
				if loc := w.Header().Get("Location"); loc != "/schedules/"+resp.ScheduleID {
					t.Errorf("Expected Location /schedules/%s, got %q", resp.ScheduleID, loc)
				}
			}
		})
	}
}

func TestCreateSchedule_RequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.MakeRequest("POST", "/schedules", models.ScheduleRequest{ScheduleName: "Trip"}, nil)
	w := httptest.NewRecorder()
	env.schedules.CreateSchedule(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestGetSchedule(t *testing.T) {
	env := newTestEnv(t)
	scheduleID := testutil.CreateTestSchedule(t, env.db, alice, "Trip")
	mon := testutil.AddTestCandidate(t, env.db, scheduleID, "Mon")
	testutil.AddTestCandidate(t, env.db, scheduleID, "Tue")
	testutil.SetTestAvailability(t, env.db, scheduleID, bob, mon, models.Present)

	t.Run("owner view", func(t *testing.T) {
		w := env.do(env.schedules.GetSchedule, alice, "GET", "/schedules/"+scheduleID, nil, "id", scheduleID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var view models.ScheduleView
		testutil.AssertJSON(t, w, &view)
		if !view.IsOwner {
			t.Error("Expected isOwner for the creator")
		}
		if len(view.Candidates) != 2 || len(view.Rows) != 2 {
			t.Fatalf("Expected 2 candidates and 2 rows, got %d and %d", len(view.Candidates), len(view.Rows))
		}
		// alice sorts before bob
		if !view.Rows[0].Participant.IsSelf {
			t.Error("Expected the viewer's row to be marked as self")
		}
		if view.Rows[1].Cells[0] != models.Present || view.Rows[1].Cells[1] != models.Absent {
			t.Errorf("Unexpected cells for bob: %v", view.Rows[1].Cells)
		}
	})

	t.Run("unknown schedule", func(t *testing.T) {
		id := uuid.NewString()
		w := env.do(env.schedules.GetSchedule, alice, "GET", "/schedules/"+id, nil, "id", id)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := env.do(env.schedules.GetSchedule, alice, "GET", "/schedules/xyz", nil, "id", "xyz")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetEditable_HidesOwnership(t *testing.T) {
	env := newTestEnv(t)
	scheduleID := testutil.CreateTestSchedule(t, env.db, alice, "Trip")
	missing := uuid.NewString()

	w := env.do(env.schedules.GetEditable, alice, "GET", "/schedules/"+scheduleID+"/edit", nil, "id", scheduleID)
	testutil.AssertStatus(t, w, http.StatusOK)

	notOwner := env.do(env.schedules.GetEditable, bob, "GET", "/schedules/"+scheduleID+"/edit", nil, "id", scheduleID)
	notFound := env.do(env.schedules.GetEditable, bob, "GET", "/schedules/"+missing+"/edit", nil, "id", missing)

	testutil.AssertStatus(t, notOwner, http.StatusNotFound)
	testutil.AssertStatus(t, notFound, http.StatusNotFound)
	if notOwner.Body.String() != notFound.Body.String() {
		t.Errorf("Expected identical bodies, got %q and %q", notOwner.Body.String(), notFound.Body.String())
	}
}

func TestUpdateSchedule(t *testing.T) {
	env := newTestEnv(t)
	scheduleID := testutil.CreateTestSchedule(t, env.db, alice, "Trip")
	testutil.AddTestCandidate(t, env.db, scheduleID, "Mon")

	req := models.ScheduleRequest{ScheduleName: "Trip 2", Memo: "new", Candidates: "Tue"}

	w := env.do(env.schedules.UpdateSchedule, bob, "PUT", "/schedules/"+scheduleID, req, "id", scheduleID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = env.do(env.schedules.UpdateSchedule, alice, "PUT", "/schedules/"+scheduleID, req, "id", scheduleID)
	testutil.AssertStatus(t, w, http.StatusSeeOther)

	editable, err := env.svc.GetEditable(context.Background(), scheduleID, alice)
	if err != nil {
		t.Fatalf("GetEditable: %v", err)
	}
	if editable.Schedule.ScheduleName != "Trip 2" || editable.Schedule.Memo != "new" {
		t.Errorf("Update not applied: %+v", editable.Schedule)
	}
	if len(editable.Candidates) != 2 {
		t.Errorf("Expected candidates to be appended, got %d", len(editable.Candidates))
	}
}

func TestDeleteSchedule(t *testing.T) {
	env := newTestEnv(t)
	scheduleID := testutil.CreateTestSchedule(t, env.db, alice, "Trip")
	mon := testutil.AddTestCandidate(t, env.db, scheduleID, "Mon")
	testutil.SetTestAvailability(t, env.db, scheduleID, bob, mon, models.Uncertain)

	w := env.do(env.schedules.DeleteSchedule, bob, "DELETE", "/schedules/"+scheduleID, nil, "id", scheduleID)
	testutil.AssertStatus(t, w, http.StatusNotFound)
	if n := testutil.CountRows(t, env.db, "availabilities", scheduleID); n != 1 {
		t.Fatalf("Expected refused delete to keep rows, got %d", n)
	}

	w = env.do(env.schedules.DeleteSchedule, alice, "POST", "/schedules/"+scheduleID+"/delete", nil, "id", scheduleID)
	testutil.AssertStatus(t, w, http.StatusSeeOther)

	var resp models.DeleteScheduleResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Deleted || resp.ScheduleID != scheduleID {
		t.Errorf("Unexpected delete response: %+v", resp)
	}
	for _, table := range []string{"schedules", "candidates", "availabilities", "comments"} {
		if n := testutil.CountRows(t, env.db, table, scheduleID); n != 0 {
			t.Errorf("Expected no %s rows after delete, got %d", table, n)
		}
	}
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateTestSchedule(t, env.db, alice, "mine")
	testutil.CreateTestSchedule(t, env.db, bob, "theirs")

	w := env.do(env.schedules.ListMine, alice, "GET", "/schedules", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.Schedule
	testutil.AssertJSON(t, w, &list)
	if len(list) != 1 || list[0].ScheduleName != "mine" {
		t.Errorf("Expected only alice's schedule, got %+v", list)
	}
}

func TestExportSchedule(t *testing.T) {
	env := newTestEnv(t)
	scheduleID := testutil.CreateTestSchedule(t, env.db, alice, "Trip")
	mon := testutil.AddTestCandidate(t, env.db, scheduleID, "Mon")
	testutil.SetTestAvailability(t, env.db, scheduleID, alice, mon, models.Present)

	w := env.do(env.schedules.ExportSchedule, alice, "GET", "/schedules/"+scheduleID+"/export", nil, "id", scheduleID)
	testutil.AssertStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Expected xlsx content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, scheduleID) {
		t.Errorf("Expected filename with schedule id, got %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()
	value, err := f.GetCellValue(export.SheetName, "B2")
	if err != nil {
		t.Fatalf("Failed to read cell: %v", err)
	}
	if value != export.Label(models.Present) {
		t.Errorf("Expected present label in B2, got %q", value)
	}
}
