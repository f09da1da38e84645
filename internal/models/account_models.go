package models

import "time"

// Account status values shared by owners and staff.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Staff types. The lowercased type doubles as the staff member's role claim.
const (
	StaffTypeOnsite   = "Onsite"
	StaffTypeDelivery = "Delivery"
)

// Administrator is a platform-wide admin account.
type Administrator struct {
	AdminID      int64     `json:"admin_id" db:"admin_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Gender       string    `json:"gender" db:"gender"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Owner is a station owner account. Each owner belongs to exactly one station.
type Owner struct {
	OwnerID      int64     `json:"owner_id" db:"owner_id"`
	StationID    int64     `json:"station_id" db:"station_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Gender       string    `json:"gender" db:"gender"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	StationName *string `json:"station_name,omitempty"`
}

// StaffMember is an onsite or delivery employee of a station.
type StaffMember struct {
	StaffID      int64     `json:"staff_id" db:"staff_id"`
	StationID    int64     `json:"station_id" db:"station_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Gender       string    `json:"gender" db:"gender"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	Type         string    `json:"type" db:"type"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	StationName *string `json:"station_name,omitempty"`
}
