package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"lanebook/internal/availability/service"
	apperrors "lanebook/pkg/errors"
	httputil "lanebook/pkg/http"
	"lanebook/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Windows(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	laneID, err := httputil.RequireQuery(r, "lane_id")
	if err != nil {
		h.writeError(w, "Windows", err)
		return
	}
	date, err := httputil.RequireQuery(r, "date")
	if err != nil {
		h.writeError(w, "Windows", err)
		return
	}

	result, err := h.service.FreeWindows(r.Context(), laneID, date)
	if err != nil {
		h.writeError(w, "Windows", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Windows", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Starts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	laneID, err := httputil.RequireQuery(r, "lane_id")
	if err != nil {
		h.writeError(w, "Starts", err)
		return
	}
	date, err := httputil.RequireQuery(r, "date")
	if err != nil {
		h.writeError(w, "Starts", err)
		return
	}
	durationStr, err := httputil.RequireQuery(r, "duration_min")
	if err != nil {
		h.writeError(w, "Starts", err)
		return
	}
	durationMin, err := strconv.Atoi(durationStr)
	if err != nil {
		h.writeError(w, "Starts", apperrors.InvalidInput("invalid duration_min parameter: "+durationStr))
		return
	}

	result, err := h.service.AvailableStarts(r.Context(), laneID, date, durationMin)
	if err != nil {
		h.writeError(w, "Starts", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Starts", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/windows", h.Windows)
	router.GET("/api/v1/availability/starts", h.Starts)
}
