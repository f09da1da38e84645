package models

import "time"

// Product is a catalog entry owned by a station. Availability is always
// scoped to a product row, never to a free-text water-type name.
type Product struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Type         string    `json:"type" db:"type" binding:"required"`
	SizeCategory string    `json:"size_category" db:"size_category" binding:"required"`
	Price        float64   `json:"price" db:"price" binding:"required,gt=0"`
	Photo        *string   `json:"photo,omitempty" db:"photo"`
	StationID    int64     `json:"station_id" db:"station_id"`
	IsArchived   bool      `json:"is_archived" db:"is_archived"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	StationName *string `json:"station_name,omitempty"`
}
