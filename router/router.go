// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-schedule/cliparse"
	"github.com/danielhkuo/quickly-schedule/handlers"
	"github.com/danielhkuo/quickly-schedule/middleware"
	"github.com/danielhkuo/quickly-schedule/schedules"
)

func NewRouter(svc *schedules.Service, cfg cliparse.Config, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	scheduleHandler := handlers.NewScheduleHandler(svc, logger)
	responseHandler := handlers.NewResponseHandler(svc, logger)

	// Every schedule route needs a verified viewer
	withViewer := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(logger, middleware.WithIdentity(cfg.IdentitySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Schedule lifecycle
	mux.HandleFunc("GET /schedules", withViewer(scheduleHandler.ListMine))
	mux.HandleFunc("POST /schedules", withViewer(scheduleHandler.CreateSchedule))
	mux.HandleFunc("GET /schedules/{id}", withViewer(scheduleHandler.GetSchedule))
	mux.HandleFunc("GET /schedules/{id}/edit", withViewer(scheduleHandler.GetEditable))
	mux.HandleFunc("PUT /schedules/{id}", withViewer(scheduleHandler.UpdateSchedule))
	mux.HandleFunc("POST /schedules/{id}/update", withViewer(scheduleHandler.UpdateSchedule))
	mux.HandleFunc("DELETE /schedules/{id}", withViewer(scheduleHandler.DeleteSchedule))
	mux.HandleFunc("POST /schedules/{id}/delete", withViewer(scheduleHandler.DeleteSchedule))
	mux.HandleFunc("GET /schedules/{id}/export", withViewer(scheduleHandler.ExportSchedule))

	// Participant responses
	mux.HandleFunc("POST /schedules/{id}/users/{userId}/candidates/{candidateId}", withViewer(responseHandler.SetAvailability))
	mux.HandleFunc("POST /schedules/{id}/users/{userId}/comments", withViewer(responseHandler.SetComment))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-schedule API v1"))
	})

	return mux
}
