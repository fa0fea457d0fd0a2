package model

import "time"

type Menu struct {
	ID                 string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StoreID            string       `json:"store_id" bson:"store_id" validate:"required,mongodb"`
	Name               string       `json:"name" bson:"name" validate:"required,min=2,max=100"`
	BasePrice          int64        `json:"base_price" bson:"base_price" validate:"min=0"`
	PrepDurationMin    int          `json:"prep_duration_min" bson:"prep_duration_min" validate:"min=0,max=480"`
	BaseDurationMin    int          `json:"base_duration_min" bson:"base_duration_min" validate:"required,min=5,max=480"`
	CleanupDurationMin int          `json:"cleanup_duration_min" bson:"cleanup_duration_min" validate:"min=0,max=480"`
	Options            []MenuOption `json:"options,omitempty" bson:"options,omitempty" validate:"omitempty,dive"`
	IsActive           bool         `json:"is_active" bson:"is_active"`
	CreatedAt          time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type MenuOption struct {
	ID    string `json:"id" bson:"id" validate:"required"`
	Name  string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Price int64  `json:"price" bson:"price"`
}

// TotalDurationMin is the slot length a booking of this menu occupies.
func (m *Menu) TotalDurationMin() int {
	return m.PrepDurationMin + m.BaseDurationMin + m.CleanupDurationMin
}

// Option returns the menu's option with the given id, if it belongs to
// this menu.
func (m *Menu) Option(id string) (MenuOption, bool) {
	for _, opt := range m.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return MenuOption{}, false
}
