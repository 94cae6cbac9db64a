// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-schedule/auth"
	"github.com/danielhkuo/quickly-schedule/cliparse"
	"github.com/danielhkuo/quickly-schedule/db"
	"github.com/danielhkuo/quickly-schedule/models"
)

// TestDBURL is the connection string for the test database. Every call to
// SetupTestDB gets its own private in-memory database.
const TestDBURL = "file::memory:"

// TestSalt signs identity tokens in tests.
const TestSalt = "test-identity-salt"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		IdentitySalt: TestSalt,
		CacheTTL:     30 * time.Second,
		LogLevel:     "error",
	}
}

// IdentityHeaders returns signed identity headers for user.
func IdentityHeaders(user models.User, salt string) map[string]string {
	return map[string]string{
		auth.HeaderUserID:    strconv.FormatInt(user.UserID, 10),
		auth.HeaderUsername:  user.Username,
		auth.HeaderUserToken: auth.GenerateUserToken(user.UserID, salt),
	}
}

// CreateTestUser inserts a user row.
func CreateTestUser(t *testing.T, conn *sql.DB, user models.User) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username
	`, user.UserID, user.Username)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

// CreateTestSchedule creates a schedule owned by owner and returns its id.
func CreateTestSchedule(t *testing.T, conn *sql.DB, owner models.User, name string) string {
	t.Helper()

	CreateTestUser(t, conn, owner)

	scheduleID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO schedules (schedule_id, schedule_name, memo, created_by, updated_at)
		VALUES ($1, $2, '', $3, $4)
	`, scheduleID, name, owner.UserID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test schedule: %v", err)
	}

	return scheduleID
}

// AddTestCandidate adds a candidate to a schedule and returns its id.
func AddTestCandidate(t *testing.T, conn *sql.DB, scheduleID, name string) int64 {
	t.Helper()

	res, err := conn.Exec(`
		INSERT INTO candidates (candidate_name, schedule_id)
		VALUES ($1, $2)
	`, name, scheduleID)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read candidate id: %v", err)
	}

	return id
}

// SetTestAvailability records an answer for user, creating the user row.
func SetTestAvailability(t *testing.T, conn *sql.DB, scheduleID string, user models.User, candidateID int64, a models.Availability) {
	t.Helper()

	CreateTestUser(t, conn, user)
	_, err := conn.Exec(`
		INSERT INTO availabilities (schedule_id, user_id, candidate_id, availability)
		VALUES ($1, $2, $3, $4)
	`, scheduleID, user.UserID, candidateID, int(a))
	if err != nil {
		t.Fatalf("Failed to create test availability: %v", err)
	}
}

// CountRows returns the number of rows in table that reference scheduleID.
func CountRows(t *testing.T, conn *sql.DB, table, scheduleID string) int {
	t.Helper()

	var n int
	// table is always a literal from the calling test
	err := conn.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE schedule_id = $1`, scheduleID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
