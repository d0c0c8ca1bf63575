package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lanebook/internal/bookings/service"
	apperrors "lanebook/pkg/errors"
	httputil "lanebook/pkg/http"
	"lanebook/pkg/logger"
	"lanebook/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// Attempt is the booking commit endpoint. A lost race or an occupied
// slot comes back as 409 with an actionable message; callers re-query
// availability and pick another slot.
func (h *BookingHandler) Attempt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Attempt", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Attempt(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Attempt", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Attempt", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Query lists active bookings for one date, optionally narrowed by
// lane.
func (h *BookingHandler) Query(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.RequireQuery(r, "date")
	if err != nil {
		h.writeError(w, "Query", err)
		return
	}
	laneID := r.URL.Query().Get("lane_id")

	bookings, err := h.service.QueryByDate(r.Context(), date, laneID)
	if err != nil {
		h.writeError(w, "Query", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "Query", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListByRequester(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requesterID, err := httputil.RequireQuery(r, "requester_id")
	if err != nil {
		h.writeError(w, "ListByRequester", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByRequester", err)
		return
	}

	bookings, totalCount, err := h.service.ListByRequester(r.Context(), requesterID, limit, offset)
	if err != nil {
		h.writeError(w, "ListByRequester", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByRequester", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Attempt)
	router.GET("/api/v1/bookings", h.Query)
	router.GET("/api/v1/bookings/mine", h.ListByRequester)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
}
