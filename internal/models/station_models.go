package models

import "time"

// Station is a water refilling station. It owns products, staff and owners.
type Station struct {
	StationID      int64     `json:"station_id" db:"station_id"`
	StationName    string    `json:"station_name" db:"station_name"`
	Address        *string   `json:"address,omitempty" db:"address"`
	ContactNumber  *string   `json:"contact_number,omitempty" db:"contact_number"`
	Description    *string   `json:"description,omitempty" db:"description"`
	Latitude       *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64  `json:"longitude,omitempty" db:"longitude"`
	WorkingDays    []string  `json:"working_days,omitempty" db:"working_days"`
	OpeningTime    *string   `json:"opening_time,omitempty" db:"opening_time"`
	ClosingTime    *string   `json:"closing_time,omitempty" db:"closing_time"`
	ProfilePicture *string   `json:"profile_picture,omitempty" db:"profile_picture"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
