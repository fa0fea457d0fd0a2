package handler

import (
	"encoding/json"
	"net/http"

	"slotify/internal/reservations/service"
	"slotify/internal/reservations/validator"
	httputil "slotify/pkg/http"
	"slotify/pkg/logger"
	"slotify/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service   service.BookingService
	validator *validator.ReservationValidator
	log       *logger.Logger
}

func NewBookingHandler(service service.BookingService, v *validator.ReservationValidator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: v,
		log:       log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	storeID := ps.ByName("store_id")

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.validator.ValidateBookingRequest(&req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			err = verrs.ToAppError()
		}
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), storeID, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	storeID := ps.ByName("store_id")
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), storeID, id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	storeID := ps.ByName("store_id")
	id := ps.ByName("id")

	if err := h.service.CancelBooking(r.Context(), storeID, id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/stores/:store_id/bookings", h.Create)
	router.GET("/api/v1/stores/:store_id/bookings/:id", h.GetByID)
	router.POST("/api/v1/stores/:store_id/bookings/:id/cancel", h.Cancel)
}
