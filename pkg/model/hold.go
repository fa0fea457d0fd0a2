package model

import "time"

// HoldLease is a short-lived exclusive reservation of a resource time
// slot while a customer completes checkout. The token doubles as the
// storage key so lookups never scan the lease space.
type HoldLease struct {
	Token      string       `json:"token" bson:"_id" validate:"required,uuid4"`
	StoreID    string       `json:"store_id" bson:"store_id" validate:"required,mongodb"`
	ResourceID string       `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	Date       string       `json:"date" bson:"date" validate:"required,date_ymd"`
	Interval   TimeInterval `json:"interval" bson:"interval" validate:"required"`
	MenuID     string       `json:"menu_id" bson:"menu_id" validate:"required,mongodb"`
	CustomerID string       `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at" bson:"expires_at" validate:"required"`
}

// Live reports whether the lease still reserves its slot at the given
// instant. The storage TTL reaper may lag, so callers never trust the
// mere presence of a lease document.
func (l *HoldLease) Live(now time.Time) bool {
	return now.Before(l.ExpiresAt)
}

// HoldRequest is the inbound payload for placing a hold. The interval
// end is derived server-side from the menu duration.
type HoldRequest struct {
	ResourceID string `json:"resource_id" validate:"required,mongodb"`
	MenuID     string `json:"menu_id" validate:"required,mongodb"`
	Date       string `json:"date" validate:"required,date_ymd"`
	Start      string `json:"start" validate:"required,clock_hhmm"`
	CustomerID string `json:"customer_id,omitempty"`
}

// HoldValidateRequest re-presents a held slot for verification against
// the stored lease. Every field must match exactly.
type HoldValidateRequest struct {
	ResourceID string `json:"resource_id" validate:"required,mongodb"`
	Date       string `json:"date" validate:"required,date_ymd"`
	Start      string `json:"start" validate:"required,clock_hhmm"`
	End        string `json:"end" validate:"required,clock_hhmm"`
}

// HoldExtendRequest resets a lease TTL to now plus Minutes.
type HoldExtendRequest struct {
	Minutes int `json:"minutes" validate:"required,min=1,max=120"`
}

// SlotLock is an advisory lock serializing concurrent hold and booking
// creation for one (store, resource, date) bucket. Acquisition is an
// insert against a unique key; a duplicate key means another request
// holds the bucket.
type SlotLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
