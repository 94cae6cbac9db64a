// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-schedule/middleware"
	"github.com/danielhkuo/quickly-schedule/models"
	"github.com/danielhkuo/quickly-schedule/schedules"
)

const msgNotFound = "Schedule not found"

// writeServiceError maps a schedules error to its HTTP response. NotFound and
// NotOwner share one response so callers cannot probe for existence.
func writeServiceError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var ve *schedules.ValidationError
	switch {
	case errors.As(err, &ve):
		middleware.ErrorResponse(w, http.StatusBadRequest, ve.Error())
	case schedules.IsHidden(err):
		middleware.ErrorResponse(w, http.StatusNotFound, msgNotFound)
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// requireViewer returns the identity placed in the context by
// middleware.WithIdentity, writing 401 when there is none.
func requireViewer(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "identity required")
		return models.User{}, false
	}
	return viewer, true
}
