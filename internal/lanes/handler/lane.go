package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"lanebook/internal/lanes/service"
	apperrors "lanebook/pkg/errors"
	httputil "lanebook/pkg/http"
	"lanebook/pkg/logger"
	"lanebook/pkg/model"
)

type LaneHandler struct {
	service service.LaneService
	log     *logger.Logger
}

func NewLaneHandler(service service.LaneService, log *logger.Logger) *LaneHandler {
	return &LaneHandler{
		service: service,
		log:     log,
	}
}

func (h *LaneHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var lane model.Lane
	if err := json.NewDecoder(r.Body).Decode(&lane); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &lane); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, lane); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *LaneHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lane, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, lane); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LaneHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	activeOnly := false
	if s := r.URL.Query().Get("active_only"); s != "" {
		activeOnly, err = strconv.ParseBool(s)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid active_only parameter: "+s)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	lanes, totalCount, err := h.service.GetAll(r.Context(), limit, offset, activeOnly)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, lanes, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *LaneHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.LaneUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *LaneHandler) GetBlocks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.RequireQuery(r, "date")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBlocks", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	blocks, err := h.service.GetBlocks(r.Context(), ps.ByName("id"), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBlocks", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, blocks); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBlocks", "operation", "WriteSuccess", "error", err)
	}
}

// SetBlocks replaces the full blocked-interval set for a lane on one
// date.
func (h *LaneHandler) SetBlocks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.RequireQuery(r, "date")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetBlocks", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var blocks []*model.BlockedInterval
	if err := json.NewDecoder(r.Body).Decode(&blocks); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetBlocks", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.SetBlocks(r.Context(), ps.ByName("id"), date, blocks); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetBlocks", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *LaneHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/lanes", h.Create)
	router.GET("/api/v1/lanes", h.GetAll)
	router.GET("/api/v1/lanes/id/:id", h.GetByID)
	router.PATCH("/api/v1/lanes/id/:id", h.Update)

	router.GET("/api/v1/lanes/id/:id/blocks", h.GetBlocks)
	router.PUT("/api/v1/lanes/id/:id/blocks", h.SetBlocks)
}
