package model

import "time"

const (
	ResourceTypeStaff     = "staff"
	ResourceTypeRoom      = "room"
	ResourceTypeEquipment = "equipment"
	ResourceTypeVehicle   = "vehicle"
)

// Resource is the unit being scheduled: a staff member, room, piece of
// equipment, or vehicle belonging to a store.
type Resource struct {
	ID             string              `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StoreID        string              `json:"store_id" bson:"store_id" validate:"required,mongodb"`
	Name           string              `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Type           string              `json:"type" bson:"type" validate:"required,oneof=staff room equipment vehicle"`
	WorkingHours   map[string]DayHours `json:"working_hours" bson:"working_hours" validate:"required"`
	HourlyRateDiff int64               `json:"hourly_rate_diff" bson:"hourly_rate_diff"`
	NominationFee  int64               `json:"nomination_fee" bson:"nomination_fee" validate:"min=0"`
	IsActive       bool                `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// WorkingWindow resolves the resource's working interval for a weekday.
// The second return is false on the resource's days off.
func (r *Resource) WorkingWindow(dayOfWeek string) (TimeInterval, bool, error) {
	hours, ok := r.WorkingHours[dayOfWeek]
	if !ok {
		return TimeInterval{}, false, nil
	}
	iv, err := hours.Interval()
	if err != nil {
		return TimeInterval{}, false, err
	}
	return iv, true, nil
}
