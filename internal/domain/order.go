package domain

import "time"

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Placed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusRefunded   OrderStatus = "Refunded"
)

// Terminal reports whether no further status change is expected.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next follows the nominal
// lifecycle Placed → Processing → Shipped → Delivered/Completed, with
// Cancelled and Refunded reachable from any non-terminal state. Status
// updates are not required to pass this check; it exists for callers that
// want to enforce legality.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case OrderStatusCancelled, OrderStatusRefunded:
		return true
	case OrderStatusProcessing:
		return s == OrderStatusPlaced
	case OrderStatusShipped:
		return s == OrderStatusProcessing
	case OrderStatusDelivered, OrderStatusCompleted:
		return s == OrderStatusShipped
	}
	return false
}

// Order is an immutable snapshot of a cart at checkout time. Items and
// monetary fields never change after creation; only Status moves.
type Order struct {
	ID             string      `json:"id"`
	TrackingNumber string      `json:"trackingNumber"`
	OrderDate      time.Time   `json:"orderDate"`
	Status         OrderStatus `json:"status"`
	Items          []CartItem  `json:"items"`

	SubtotalCents    int64 `json:"subtotal"`
	DeliveryFeeCents int64 `json:"deliveryFee"`
	TaxCents         int64 `json:"tax"`
	TotalCents       int64 `json:"total"`

	PaymentMethod   string `json:"paymentMethod"`
	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryDate    string `json:"deliveryDate"`
}

// TrackingNumberFor derives the deterministic tracking number for a remote
// order document id.
func TrackingNumberFor(orderID string) string {
	return "TRK" + orderID
}

// OrderDraft is the checkout input used to create an order; the remote store
// assigns the id and the tracking number is derived from it.
type OrderDraft struct {
	Items            []CartItem
	SubtotalCents    int64
	DeliveryFeeCents int64
	TaxCents         int64
	TotalCents       int64
	PaymentMethod    string
	DeliveryAddress  string
	DeliveryDate     string
}
