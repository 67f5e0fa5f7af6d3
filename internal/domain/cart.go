package domain

import "time"

type RentalType string

const (
	RentalTypeHour RentalType = "Hour"
	RentalTypeDay  RentalType = "Day"
)

// CartItem is one (equipment, rental-type) pairing inside a cart. Identity
// within a cart is the (EquipmentID, RentalType) pair; ID is the remote
// store's document id once the item has been confirmed.
type CartItem struct {
	ID          string     `json:"id"`
	EquipmentID string     `json:"itemId"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	SubCategory string     `json:"subCategory"`
	Image       string     `json:"image"`
	RentalType  RentalType `json:"rentType"`

	Quantity       int `json:"quantity"`
	RentalDuration int `json:"rentalDuration"`

	// Rate snapshot fields, captured from the equipment at add time.
	// All price calculations use these snapshots, not live catalog rates.
	HourlyRateCents int64 `json:"rentPerHour"`
	DailyRateCents  int64 `json:"rentPerDay"`

	// PriceCents is the precomputed rate×duration price set at add time.
	// Zero means absent; totals then fall back to rate×quantity×duration.
	PriceCents int64 `json:"price"`

	AddedAt time.Time `json:"addedAt,omitempty"`
}

// SameLine reports whether other occupies the same cart line, i.e. shares
// this item's (EquipmentID, RentalType) identity.
func (i CartItem) SameLine(other CartItem) bool {
	return i.EquipmentID == other.EquipmentID && i.RentalType == other.RentalType
}

// CartItemUpdate carries the fields an update intent may change. Nil fields
// are left untouched.
type CartItemUpdate struct {
	Quantity       *int
	RentalDuration *int
}
