// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Schedule API.

# Handler Types

  - ScheduleHandler: schedule lifecycle (list, create, view, edit, delete, export)
  - ResponseHandler: participants' availabilities and comments

Handlers are created with the schedules.Service and a zap logger:

	scheduleHandler := handlers.NewScheduleHandler(svc, logger)

Every handler expects middleware.WithIdentity in front of it and reads the
viewer with middleware.ViewerFromContext.

# Errors

Service errors map to responses in one place:

	*schedules.ValidationError       → 400 with the validation message
	schedules.ErrNotFound/ErrNotOwner → 404 "Schedule not found"
	anything else                    → 500 "Database error" (logged)

Writes addressed to another user's {userId} are also answered with 404.

# Redirects

Create, update and delete answer 303 See Other with a Location header and a
JSON body, so browsers follow the redirect and API clients read the body.
*/
package handlers
