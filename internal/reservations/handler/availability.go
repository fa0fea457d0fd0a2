package handler

import (
	"net/http"
	"strconv"

	"slotify/internal/reservations/service"
	apperrors "slotify/pkg/errors"
	httputil "slotify/pkg/http"
	"slotify/pkg/logger"

	"github.com/julienschmidt/httprouter"
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

func (h *AvailabilityHandler) GetSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	storeID := ps.ByName("store_id")
	query := r.URL.Query()
	date := query.Get("date")
	menuID := query.Get("menu_id")
	resourceID := query.Get("resource_id")

	if date == "" || menuID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Both 'date' and 'menu_id' query parameters are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSlots", "error", writeErr)
		}
		return
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), storeID, date, menuID, resourceID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSlots", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSlots", "error", err)
	}
}

func (h *AvailabilityHandler) GetCalendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	storeID := ps.ByName("store_id")
	query := r.URL.Query()
	menuID := query.Get("menu_id")

	if menuID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'menu_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCalendar", "error", writeErr)
		}
		return
	}

	days := 14
	if daysStr := query.Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 || parsed > 60 {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'days' must be a number between 1 and 60")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetCalendar", "error", writeErr)
			}
			return
		}
		days = parsed
	}

	calendar, err := h.service.GetAvailabilityCalendar(r.Context(), storeID, menuID, days)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCalendar", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, calendar); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCalendar", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/stores/:store_id/availability", h.GetSlots)
	router.GET("/api/v1/stores/:store_id/availability/calendar", h.GetCalendar)
}
