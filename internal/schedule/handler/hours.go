package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lanebook/internal/schedule/service"
	apperrors "lanebook/pkg/errors"
	httputil "lanebook/pkg/http"
	"lanebook/pkg/logger"
	"lanebook/pkg/model"
)

type HoursHandler struct {
	service service.HoursService
	log     *logger.Logger
}

func NewHoursHandler(service service.HoursService, log *logger.Logger) *HoursHandler {
	return &HoursHandler{
		service: service,
		log:     log,
	}
}

// ResolveHours answers "what are the facility hours on this date".
func (h *HoursHandler) ResolveHours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.RequireQuery(r, "date")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ResolveHours", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	hours, err := h.service.Resolve(r.Context(), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ResolveHours", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, hours); err != nil {
		h.log.Error("failed to write success response", "handler", "ResolveHours", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HoursHandler) GetDefaultWeek(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	week, err := h.service.GetDefaultWeek(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDefaultWeek", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, week); err != nil {
		h.log.Error("failed to write success response", "handler", "GetDefaultWeek", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HoursHandler) ReplaceDefaultWeek(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var week model.DefaultWeek
	if err := json.NewDecoder(r.Body).Decode(&week); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ReplaceDefaultWeek", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.ReplaceDefaultWeek(r.Context(), &week); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ReplaceDefaultWeek", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HoursHandler) ListPeriods(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	periods, err := h.service.ListSeasonalPeriods(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListPeriods", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, periods); err != nil {
		h.log.Error("failed to write success response", "handler", "ListPeriods", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HoursHandler) CreatePeriod(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var period model.SeasonalPeriod
	if err := json.NewDecoder(r.Body).Decode(&period); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreatePeriod", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateSeasonalPeriod(r.Context(), &period); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreatePeriod", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, period); err != nil {
		h.log.Error("failed to write created response", "handler", "CreatePeriod", "operation", "WriteCreated", "error", err)
	}
}

func (h *HoursHandler) DeletePeriod(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.service.DeleteSeasonalPeriod(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeletePeriod", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HoursHandler) GetOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")
	override, err := h.service.GetDateOverride(r.Context(), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetOverride", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, override); err != nil {
		h.log.Error("failed to write success response", "handler", "GetOverride", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HoursHandler) UpsertOverride(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var override model.DateOverride
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpsertOverride", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.UpsertDateOverride(r.Context(), &override); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpsertOverride", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HoursHandler) DeleteOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")
	if err := h.service.DeleteDateOverride(r.Context(), date); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteOverride", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HoursHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/schedule/hours", h.ResolveHours)

	router.GET("/api/v1/schedule/default-week", h.GetDefaultWeek)
	router.PUT("/api/v1/schedule/default-week", h.ReplaceDefaultWeek)

	router.GET("/api/v1/schedule/periods", h.ListPeriods)
	router.POST("/api/v1/schedule/periods", h.CreatePeriod)
	router.DELETE("/api/v1/schedule/periods/id/:id", h.DeletePeriod)

	router.GET("/api/v1/schedule/overrides/date/:date", h.GetOverride)
	router.PUT("/api/v1/schedule/overrides", h.UpsertOverride)
	router.DELETE("/api/v1/schedule/overrides/date/:date", h.DeleteOverride)
}
