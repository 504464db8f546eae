package model

import "time"

// StoreSettings holds store-wide options. PickupDays are time.Weekday values.
type StoreSettings struct {
	PickupDays []int     `json:"pickupDays" db:"pickup_days"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// DefaultPickupDays is every day of the week.
func DefaultPickupDays() []int {
	return []int{0, 1, 2, 3, 4, 5, 6}
}

// AllowsPickupOn reports whether pickup is offered on the given weekday.
func (s *StoreSettings) AllowsPickupOn(day time.Weekday) bool {
	for _, d := range s.PickupDays {
		if time.Weekday(d) == day {
			return true
		}
	}
	return false
}

// PickupDaysRequest replaces the allowed pickup weekdays.
type PickupDaysRequest struct {
	PickupDays []int `json:"pickupDays" validate:"required,min=1,max=7,unique,dive,gte=0,lte=6"`
}
