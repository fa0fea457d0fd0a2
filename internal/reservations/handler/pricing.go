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

type PricingHandler struct {
	service   service.PricingService
	validator *validator.ReservationValidator
	log       *logger.Logger
}

func NewPricingHandler(service service.PricingService, v *validator.ReservationValidator, log *logger.Logger) *PricingHandler {
	return &PricingHandler{
		service:   service,
		validator: v,
		log:       log,
	}
}

// Quote prices a selection without reserving anything.
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	storeID := ps.ByName("store_id")

	var req model.PriceQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Quote", "error", writeErr)
		}
		return
	}

	if err := h.validator.ValidatePriceQuoteRequest(&req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			err = verrs.ToAppError()
		}
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Quote", "error", writeErr)
		}
		return
	}

	breakdown, err := h.service.Quote(r.Context(), storeID, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Quote", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, breakdown); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "error", err)
	}
}

func (h *PricingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/stores/:store_id/price-quote", h.Quote)
}
