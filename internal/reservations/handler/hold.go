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

type HoldHandler struct {
	service   service.HoldService
	validator *validator.ReservationValidator
	log       *logger.Logger
}

func NewHoldHandler(service service.HoldService, v *validator.ReservationValidator, log *logger.Logger) *HoldHandler {
	return &HoldHandler{
		service:   service,
		validator: v,
		log:       log,
	}
}

func (h *HoldHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	storeID := ps.ByName("store_id")

	var req model.HoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.validator.ValidateHoldRequest(&req); err != nil {
		h.writeValidationError(w, "Create", err)
		return
	}

	lease, err := h.service.CreateHold(r.Context(), storeID, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, lease); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *HoldHandler) Validate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	storeID := ps.ByName("store_id")
	token := ps.ByName("token")

	var req model.HoldValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Validate", "error", writeErr)
		}
		return
	}

	if err := h.validator.ValidateHoldValidateRequest(&req); err != nil {
		h.writeValidationError(w, "Validate", err)
		return
	}

	// Formats already validated above.
	start, _ := model.ParseClock(req.Start)
	end, _ := model.ParseClock(req.End)
	interval := model.TimeInterval{Start: start, End: end}

	lease, err := h.service.ValidateHold(r.Context(), storeID, token, req.ResourceID, req.Date, interval)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Validate", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, lease); err != nil {
		h.log.Error("failed to write success response", "handler", "Validate", "error", err)
	}
}

func (h *HoldHandler) Extend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	token := ps.ByName("token")

	var req model.HoldExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Extend", "error", writeErr)
		}
		return
	}

	if err := h.validator.ValidateHoldExtendRequest(&req); err != nil {
		h.writeValidationError(w, "Extend", err)
		return
	}

	lease, err := h.service.ExtendHold(r.Context(), token, req.Minutes)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Extend", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, lease); err != nil {
		h.log.Error("failed to write success response", "handler", "Extend", "error", err)
	}
}

func (h *HoldHandler) Release(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	token := ps.ByName("token")

	released, err := h.service.ReleaseHold(r.Context(), token)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Release", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"released": released}); err != nil {
		h.log.Error("failed to write success response", "handler", "Release", "error", err)
	}
}

func (h *HoldHandler) writeValidationError(w http.ResponseWriter, op string, err error) {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		err = verrs.ToAppError()
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *HoldHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/stores/:store_id/holds", h.Create)
	router.POST("/api/v1/stores/:store_id/holds/:token/validate", h.Validate)
	router.POST("/api/v1/stores/:store_id/holds/:token/extend", h.Extend)
	router.DELETE("/api/v1/stores/:store_id/holds/:token", h.Release)
}
