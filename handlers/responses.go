// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-schedule/middleware"
	"github.com/danielhkuo/quickly-schedule/models"
	"github.com/danielhkuo/quickly-schedule/schedules"
)

// ResponseHandler records participants' answers and comments.
type ResponseHandler struct {
	svc    *schedules.Service
	logger *zap.Logger
}

func NewResponseHandler(svc *schedules.Service, logger *zap.Logger) *ResponseHandler {
	return &ResponseHandler{svc: svc, logger: logger}
}

// actingUser checks that the {userId} path segment names the viewer. Writing
// on behalf of someone else is answered like a missing schedule.
func actingUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return models.User{}, false
	}

	userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid userId")
		return models.User{}, false
	}
	if userID != viewer.UserID {
		middleware.ErrorResponse(w, http.StatusNotFound, msgNotFound)
		return models.User{}, false
	}
	return viewer, true
}

// SetAvailability handles POST /schedules/:id/users/:userId/candidates/:candidateId
func (h *ResponseHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}

	candidateID, err := strconv.ParseInt(r.PathValue("candidateId"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid candidateId")
		return
	}

	var req models.SetAvailabilityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Availability == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "availability is required")
		return
	}

	stored, err := h.svc.SetAvailability(r.Context(), r.PathValue("id"), user, candidateID, *req.Availability)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SetAvailabilityResponse{
		Status:       "OK",
		Availability: int(stored),
	})
}

// SetComment handles POST /schedules/:id/users/:userId/comments
func (h *ResponseHandler) SetComment(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req models.SetCommentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Comment == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "comment is required")
		return
	}

	stored, err := h.svc.SetComment(r.Context(), r.PathValue("id"), user, *req.Comment)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SetCommentResponse{
		Status:  "OK",
		Comment: stored,
	})
}
