package models

import "time"

// Sale types. A delivery sale implies a delivered stock movement.
const (
	SaleTypeOnsite   = "onsite"
	SaleTypeDelivery = "delivery"
)

// Sale is a recorded sale transaction for one product.
type Sale struct {
	ID            int64     `json:"id" db:"id"`
	ProductID     int64     `json:"product_id" db:"product_id" binding:"required"`
	Quantity      int       `json:"quantity" db:"quantity" binding:"required"`
	Total         float64   `json:"total" db:"total" binding:"required"`
	Date          time.Time `json:"date" db:"date"`
	PaymentMethod string    `json:"payment_method" db:"payment_method" binding:"required"`
	SaleType      string    `json:"sale_type" db:"sale_type" binding:"required"`
	Proof         *string   `json:"proof,omitempty" db:"proof"`
	StaffID       int64     `json:"staff_id" db:"staff_id" binding:"required"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ValidSaleType reports whether t is a recognized sale type.
func ValidSaleType(t string) bool {
	return t == SaleTypeOnsite || t == SaleTypeDelivery
}
