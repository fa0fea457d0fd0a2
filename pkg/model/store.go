package model

import "time"

// DayHours is the open window for one weekday, in wall-clock form.
type DayHours struct {
	Open  string `json:"open" bson:"open" validate:"required,clock_hhmm"`
	Close string `json:"close" bson:"close" validate:"required,clock_hhmm"`
}

// Interval converts the wall-clock window into minutes from midnight.
func (d DayHours) Interval() (TimeInterval, error) {
	open, err := ParseClock(d.Open)
	if err != nil {
		return TimeInterval{}, err
	}
	close, err := ParseClock(d.Close)
	if err != nil {
		return TimeInterval{}, err
	}
	return TimeInterval{Start: open, End: close}, nil
}

// CalendarOverride replaces the weekly schedule for a single date.
// A closed override wins over any special hours.
type CalendarOverride struct {
	IsClosed     bool      `json:"is_closed" bson:"is_closed"`
	SpecialHours *DayHours `json:"special_hours,omitempty" bson:"special_hours,omitempty"`
}

type Store struct {
	ID                  string                      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name                string                      `json:"name" bson:"name" validate:"required,min=2,max=100"`
	BusinessHours       map[string]DayHours         `json:"business_hours" bson:"business_hours" validate:"required"`
	CalendarOverrides   map[string]CalendarOverride `json:"calendar_overrides,omitempty" bson:"calendar_overrides,omitempty"`
	BookingWindowDays   int                         `json:"booking_window_days" bson:"booking_window_days" validate:"required,min=1,max=365"`
	HoldDurationSeconds int                         `json:"hold_duration_seconds" bson:"hold_duration_seconds" validate:"omitempty,min=60,max=3600"`
	AutoApproval        bool                        `json:"auto_approval" bson:"auto_approval"`
	TimeZone            string                      `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	CreatedAt           time.Time                   `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// OpenWindow resolves the store's open interval for a date. A calendar
// override takes precedence over the weekly schedule; the second return
// is false when the store is closed that day.
func (s *Store) OpenWindow(date string) (TimeInterval, bool, error) {
	if ov, ok := s.CalendarOverrides[date]; ok {
		if ov.IsClosed {
			return TimeInterval{}, false, nil
		}
		if ov.SpecialHours != nil {
			iv, err := ov.SpecialHours.Interval()
			if err != nil {
				return TimeInterval{}, false, err
			}
			return iv, true, nil
		}
	}

	day, err := DayOfWeek(date)
	if err != nil {
		return TimeInterval{}, false, err
	}
	hours, ok := s.BusinessHours[day]
	if !ok {
		return TimeInterval{}, false, nil
	}
	iv, err := hours.Interval()
	if err != nil {
		return TimeInterval{}, false, err
	}
	return iv, true, nil
}
