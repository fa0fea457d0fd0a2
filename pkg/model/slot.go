package model

// Slot is a candidate start time for a menu, annotated with the
// resources free for the whole interval.
type Slot struct {
	Start              string       `json:"start"`
	End                string       `json:"end"`
	Interval           TimeInterval `json:"-"`
	AvailableResources []string     `json:"available_resources"`
	MenuDurationMin    int          `json:"menu_duration_min"`
}

// DayAvailability summarizes one calendar day for the booking widget.
type DayAvailability struct {
	Available      bool   `json:"available"`
	SlotsCount     int    `json:"slots_count"`
	FirstAvailable string `json:"first_available,omitempty"`
}
