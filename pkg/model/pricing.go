package model

// PricingBreakdown is the auditable decomposition of a booking price.
// It is derived on demand and embedded into the booking for audit; it
// is never mutated after the booking is committed.
type PricingBreakdown struct {
	BasePrice     int64 `json:"base_price" bson:"base_price"`
	OptionsTotal  int64 `json:"options_total" bson:"options_total"`
	ResourceFee   int64 `json:"resource_fee" bson:"resource_fee"`
	NominationFee int64 `json:"nomination_fee" bson:"nomination_fee"`
	Total         int64 `json:"total" bson:"total"`
}

// PriceQuoteRequest is the inbound payload for a price quote.
type PriceQuoteRequest struct {
	MenuID     string   `json:"menu_id" validate:"required,mongodb"`
	OptionIDs  []string `json:"option_ids,omitempty" validate:"omitempty,dive,required"`
	ResourceID string   `json:"resource_id,omitempty" validate:"omitempty,mongodb"`
}
