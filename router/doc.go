// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Schedule API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, cfg, logger)

# Endpoints

Health:

	GET /health

Schedules (require X-User-Id, X-Username and X-User-Token):

	GET    /schedules               - Viewer's schedules, newest edit first
	POST   /schedules               - Create schedule (303 to the new schedule)
	GET    /schedules/{id}          - Response matrix and tallies
	GET    /schedules/{id}/edit     - Schedule and candidates (owner only)
	PUT    /schedules/{id}          - Update (owner only)
	POST   /schedules/{id}/update   - Update (owner only)
	DELETE /schedules/{id}          - Cascade delete (owner only)
	POST   /schedules/{id}/delete   - Cascade delete (owner only)
	GET    /schedules/{id}/export   - Matrix as XLSX

Responses ({userId} must be the viewer):

	POST /schedules/{id}/users/{userId}/candidates/{candidateId} - Set availability
	POST /schedules/{id}/users/{userId}/comments                 - Set comment

# Handler Initialization

	scheduleHandler := handlers.NewScheduleHandler(svc, logger)
	responseHandler := handlers.NewResponseHandler(svc, logger)

Both share the schedules.Service and the zap logger.
*/
package router
