package models

import "time"

// Customer is an end-user account ordering from stations.
type Customer struct {
	CustomerID   int64     `json:"customer_id" db:"customer_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	PasswordHash string    `json:"-" db:"password"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	DefaultAddress *CustomerAddress `json:"default_address,omitempty"`
}

// CustomerAddress is one entry in a customer's address book. At most one
// address per customer is marked as default.
type CustomerAddress struct {
	AddressID  int64     `json:"address_id" db:"address_id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Label      *string   `json:"label,omitempty" db:"label"`
	Address    string    `json:"address" db:"address"`
	Note       *string   `json:"note,omitempty" db:"note"`
	Latitude   float64   `json:"latitude" db:"latitude"`
	Longitude  float64   `json:"longitude" db:"longitude"`
	IsDefault  bool      `json:"is_default" db:"is_default"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
