// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-schedule/cliparse"
	"github.com/danielhkuo/quickly-schedule/middleware"
	"github.com/danielhkuo/quickly-schedule/models"
	"github.com/danielhkuo/quickly-schedule/schedules"
	"github.com/danielhkuo/quickly-schedule/store"
	"github.com/danielhkuo/quickly-schedule/testutil"
)

var (
	alice = models.User{UserID: 1, Username: "alice"}
	bob   = models.User{UserID: 2, Username: "bob"}
)

type testEnv struct {
	db        *sql.DB
	cfg       cliparse.Config
	svc       *schedules.Service
	schedules *ScheduleHandler
	responses *ResponseHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := schedules.NewService(store.New(db), zap.NewNop())
	return &testEnv{
		db:        db,
		cfg:       cfg,
		svc:       svc,
		schedules: NewScheduleHandler(svc, zap.NewNop()),
		responses: NewResponseHandler(svc, zap.NewNop()),
	}
}

// do runs handler behind the identity middleware as user. pathValues are
// name/value pairs for the route wildcards.
func (e *testEnv) do(handler http.HandlerFunc, user models.User, method, path string, body interface{}, pathValues ...string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, testutil.IdentityHeaders(user, e.cfg.IdentitySalt))
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	w := httptest.NewRecorder()
	middleware.WithIdentity(e.cfg.IdentitySalt, handler)(w, req)
	return w
}
