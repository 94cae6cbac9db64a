// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-schedule/export"
	"github.com/danielhkuo/quickly-schedule/middleware"
	"github.com/danielhkuo/quickly-schedule/models"
	"github.com/danielhkuo/quickly-schedule/schedules"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ScheduleHandler struct {
	svc    *schedules.Service
	logger *zap.Logger
}

func NewScheduleHandler(svc *schedules.Service, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

// ListMine handles GET /schedules
func (h *ScheduleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	list, err := h.svc.ListMine(r.Context(), viewer)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

// CreateSchedule handles POST /schedules
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	var req models.ScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	scheduleID, err := h.svc.Create(r.Context(), viewer, req)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	w.Header().Set("Location", "/schedules/"+scheduleID)
	middleware.JSONResponse(w, http.StatusSeeOther, models.CreateScheduleResponse{ScheduleID: scheduleID})
}

// GetSchedule handles GET /schedules/:id
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	view, err := h.svc.GetView(r.Context(), r.PathValue("id"), viewer)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// GetEditable handles GET /schedules/:id/edit
func (h *ScheduleHandler) GetEditable(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	editable, err := h.svc.GetEditable(r.Context(), r.PathValue("id"), viewer)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, editable)
}

// UpdateSchedule handles PUT /schedules/:id and POST /schedules/:id/update
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	var req models.ScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	scheduleID := r.PathValue("id")
	if err := h.svc.Update(r.Context(), scheduleID, viewer, req); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	w.Header().Set("Location", "/schedules/"+scheduleID)
	middleware.JSONResponse(w, http.StatusSeeOther, models.CreateScheduleResponse{ScheduleID: scheduleID})
}

// DeleteSchedule handles DELETE /schedules/:id and POST /schedules/:id/delete
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	scheduleID := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), scheduleID, viewer); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	w.Header().Set("Location", "/")
	middleware.JSONResponse(w, http.StatusSeeOther, models.DeleteScheduleResponse{
		ScheduleID: scheduleID,
		Deleted:    true,
	})
}

// ExportSchedule handles GET /schedules/:id/export
func (h *ScheduleHandler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	scheduleID := r.PathValue("id")
	view, err := h.svc.GetView(r.Context(), scheduleID, viewer)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	data, err := export.MatrixWorkbook(view)
	if err != nil {
		h.logger.Error("failed to render workbook", zap.String("schedule_id", scheduleID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export schedule")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="schedule-`+view.Schedule.ScheduleID+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write workbook", zap.String("schedule_id", scheduleID), zap.Error(err))
	}
}
