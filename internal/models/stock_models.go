package models

import (
	"strings"
	"time"
)

// MovementKind is the closed set of stock movement types. Quantities are
// always stored as positive magnitudes; the direction of a movement is
// implied by its kind, never by a stored sign.
type MovementKind string

const (
	KindRefilled  MovementKind = "refilled"
	KindDiscarded MovementKind = "discarded"
	KindDelivered MovementKind = "delivered"
	KindReturned  MovementKind = "returned"
)

// MovementKinds lists every valid kind, in a stable order.
var MovementKinds = []MovementKind{KindRefilled, KindDiscarded, KindDelivered, KindReturned}

// Valid reports whether k is one of the enumerated movement kinds.
func (k MovementKind) Valid() bool {
	switch k {
	case KindRefilled, KindDiscarded, KindDelivered, KindReturned:
		return true
	default:
		return false
	}
}

// Sign returns +1 for kinds that credit available stock and -1 for kinds
// that debit it. Panics on an unknown kind: callers must validate first,
// so adding a new kind forces every consumer to be updated.
func (k MovementKind) Sign() int {
	switch k {
	case KindRefilled, KindReturned:
		return 1
	case KindDiscarded, KindDelivered:
		return -1
	default:
		panic("models: unknown movement kind: " + string(k))
	}
}

// ParseMovementKind normalizes and validates a wire-format kind string.
// Kinds are transmitted lowercase but casing is accepted leniently.
func ParseMovementKind(s string) (MovementKind, bool) {
	k := MovementKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// StockMovement is a single entry in the append-only stock ledger. Every
// movement belongs to exactly one product and, through the recording staff
// member, exactly one station.
type StockMovement struct {
	ID        int64        `json:"id" db:"id"`
	ProductID int64        `json:"product_id" db:"product_id" binding:"required"`
	Quantity  int          `json:"amount" db:"amount" binding:"required"`
	Kind      MovementKind `json:"stock_type" db:"stock_type" binding:"required"`
	Date      time.Time    `json:"date" db:"date"`
	Reason    *string      `json:"reason,omitempty" db:"reason"`
	StaffID   int64        `json:"staff_id" db:"staff_id" binding:"required"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`

	// Joined fields for listing views.
	ProductName  *string `json:"product_name,omitempty"`
	ProductType  *string `json:"product_type,omitempty"`
	SizeCategory *string `json:"size_category,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	StationName  *string `json:"station_name,omitempty"`
}

// StockSummaryRow is one product's derived availability within a station.
type StockSummaryRow struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductType  string `json:"product_type"`
	SizeCategory string `json:"size_category"`
	Available    int    `json:"available"`
}
