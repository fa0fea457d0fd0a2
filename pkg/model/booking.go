package model

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
	BookingStatusNoShow    = "no_show"
)

// ActiveBookingStatuses are the statuses that occupy a slot for
// conflict detection.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

type Booking struct {
	ID         string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StoreID    string           `json:"store_id" bson:"store_id" validate:"required,mongodb"`
	ResourceID string           `json:"resource_id,omitempty" bson:"resource_id,omitempty" validate:"omitempty,mongodb"`
	MenuID     string           `json:"menu_id" bson:"menu_id" validate:"required,mongodb"`
	OptionIDs  []string         `json:"option_ids,omitempty" bson:"option_ids,omitempty"`
	CustomerID string           `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	Date       string           `json:"date" bson:"date" validate:"required,date_ymd"`
	Interval   TimeInterval     `json:"interval" bson:"interval" validate:"required"`
	Status     string           `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed no_show"`
	TotalPrice int64            `json:"total_price" bson:"total_price" validate:"min=0"`
	Pricing    PricingBreakdown `json:"pricing" bson:"pricing"`
	CreatedAt  time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the inbound payload for creating a booking. The end
// of the interval is derived server-side from the menu duration.
type BookingRequest struct {
	MenuID     string   `json:"menu_id" validate:"required,mongodb"`
	ResourceID string   `json:"resource_id" validate:"required,mongodb"`
	OptionIDs  []string `json:"option_ids,omitempty" validate:"omitempty,dive,required"`
	CustomerID string   `json:"customer_id,omitempty"`
	Date       string   `json:"date" validate:"required,date_ymd"`
	Start      string   `json:"start" validate:"required,clock_hhmm"`
	HoldToken  string   `json:"hold_token,omitempty" validate:"omitempty,uuid4"`
}
