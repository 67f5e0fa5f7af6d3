package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"rentgear-storefront/internal/domain"
)

// The remote store keeps cart line items and orders in one physical
// collection, wrapped in a generic document envelope and disambiguated by
// the type field. Everything in this file normalizes between the envelope
// wire shape and the canonical domain records; reducers never see envelopes.

const (
	docTypeCart  = "cart"
	docTypeOrder = "order"
)

// document is the generic envelope the collection store serves.
type document struct {
	ID        string          `json:"id,omitempty"`
	Type      string          `json:"type"`
	UserID    string          `json:"userId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// cartItemPayload mirrors the wire field names of a cart line item. The same
// shape is embedded in order payloads as the frozen item snapshot.
type cartItemPayload struct {
	ID             string `json:"id,omitempty"`
	ItemID         string `json:"itemId"`
	Name           string `json:"name"`
	Category       string `json:"category,omitempty"`
	SubCategory    string `json:"subCategory,omitempty"`
	RentType       string `json:"rentType"`
	Price          int64  `json:"price"`
	Quantity       int    `json:"quantity"`
	Image          string `json:"image"`
	RentalDuration int    `json:"rentalDuration"`
	RentPerHour    int64  `json:"rentPerHour,omitempty"`
	RentPerDay     int64  `json:"rentPerDay,omitempty"`
}

type orderPayload struct {
	Items           []cartItemPayload `json:"items"`
	TotalAmount     int64             `json:"totalAmount"`
	PaymentMethod   string            `json:"paymentMethod"`
	DeliveryAddress string            `json:"deliveryAddress"`
	DeliveryDate    string            `json:"deliveryDate"`
	OrderStatus     string            `json:"orderStatus"`
	Subtotal        int64             `json:"subtotal"`
	DeliveryFee     int64             `json:"deliveryFee"`
	Tax             int64             `json:"tax"`
}

func toCartItemPayload(item domain.CartItem) cartItemPayload {
	return cartItemPayload{
		ID:             item.ID,
		ItemID:         item.EquipmentID,
		Name:           item.Name,
		Category:       item.Category,
		SubCategory:    item.SubCategory,
		RentType:       string(item.RentalType),
		Price:          item.PriceCents,
		Quantity:       item.Quantity,
		Image:          item.Image,
		RentalDuration: item.RentalDuration,
		RentPerHour:    item.HourlyRateCents,
		RentPerDay:     item.DailyRateCents,
	}
}

func (p cartItemPayload) toDomain(docID string, createdAt time.Time) domain.CartItem {
	id := p.ID
	if docID != "" {
		id = docID
	}
	duration := p.RentalDuration
	if duration < 1 {
		duration = 1
	}
	return domain.CartItem{
		ID:              id,
		EquipmentID:     p.ItemID,
		Name:            p.Name,
		Category:        p.Category,
		SubCategory:     p.SubCategory,
		Image:           p.Image,
		RentalType:      domain.RentalType(p.RentType),
		Quantity:        p.Quantity,
		RentalDuration:  duration,
		HourlyRateCents: p.RentPerHour,
		DailyRateCents:  p.RentPerDay,
		PriceCents:      p.Price,
		AddedAt:         createdAt,
	}
}

func newCartDocument(userID string, item domain.CartItem) document {
	payload, _ := json.Marshal(toCartItemPayload(item))
	return document{
		Type:      docTypeCart,
		UserID:    userID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

func newOrderDocument(userID string, draft domain.OrderDraft) document {
	items := make([]cartItemPayload, len(draft.Items))
	for i, item := range draft.Items {
		items[i] = toCartItemPayload(item)
	}
	payload, _ := json.Marshal(orderPayload{
		Items:           items,
		TotalAmount:     draft.TotalCents,
		PaymentMethod:   draft.PaymentMethod,
		DeliveryAddress: draft.DeliveryAddress,
		DeliveryDate:    draft.DeliveryDate,
		OrderStatus:     string(domain.OrderStatusPlaced),
		Subtotal:        draft.SubtotalCents,
		DeliveryFee:     draft.DeliveryFeeCents,
		Tax:             draft.TaxCents,
	})
	return document{
		Type:      docTypeOrder,
		UserID:    userID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// flattenCartItem normalizes a cart document into a domain.CartItem. Some
// store deployments return the payload fields flat on the document, so both
// shapes are accepted.
func flattenCartItem(raw json.RawMessage) (domain.CartItem, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.CartItem{}, fmt.Errorf("decode cart document: %w", err)
	}

	var payload cartItemPayload
	if len(doc.Payload) > 0 {
		if err := json.Unmarshal(doc.Payload, &payload); err != nil {
			return domain.CartItem{}, fmt.Errorf("decode cart payload: %w", err)
		}
	} else if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.CartItem{}, fmt.Errorf("decode flat cart item: %w", err)
	}

	return payload.toDomain(doc.ID, doc.CreatedAt), nil
}

// flattenOrder normalizes an order document into a domain.Order, applying
// the wire renames (orderStatus→Status, totalAmount→Total) and deriving the
// tracking number from the document id.
func flattenOrder(raw json.RawMessage) (domain.Order, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Order{}, fmt.Errorf("decode order document: %w", err)
	}

	var payload orderPayload
	if len(doc.Payload) > 0 {
		if err := json.Unmarshal(doc.Payload, &payload); err != nil {
			return domain.Order{}, fmt.Errorf("decode order payload: %w", err)
		}
	} else if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Order{}, fmt.Errorf("decode flat order: %w", err)
	}

	items := make([]domain.CartItem, len(payload.Items))
	for i, item := range payload.Items {
		items[i] = item.toDomain("", doc.CreatedAt)
		items[i].ID = item.ID
	}

	return domain.Order{
		ID:               doc.ID,
		TrackingNumber:   domain.TrackingNumberFor(doc.ID),
		OrderDate:        doc.CreatedAt,
		Status:           domain.OrderStatus(payload.OrderStatus),
		Items:            items,
		SubtotalCents:    payload.Subtotal,
		DeliveryFeeCents: payload.DeliveryFee,
		TaxCents:         payload.Tax,
		TotalCents:       payload.TotalAmount,
		PaymentMethod:    payload.PaymentMethod,
		DeliveryAddress:  payload.DeliveryAddress,
		DeliveryDate:     payload.DeliveryDate,
	}, nil
}

// equipmentPayload mirrors the catalog wire shape. Available is a pointer
// because an absent flag means the equipment is rentable.
type equipmentPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory"`
	Image       string  `json:"image"`
	RentPerHour int64   `json:"rentPerHour"`
	RentPerDay  int64   `json:"rentPerDay"`
	Rating      float64 `json:"rating"`
	Available   *bool   `json:"available"`
}

func (p equipmentPayload) toDomain(docID string) domain.Equipment {
	id := p.ID
	if docID != "" {
		id = docID
	}
	available := true
	if p.Available != nil {
		available = *p.Available
	}
	return domain.Equipment{
		ID:               id,
		Name:             p.Name,
		Category:         p.Category,
		SubCategory:      p.SubCategory,
		Image:            p.Image,
		RentPerHourCents: p.RentPerHour,
		RentPerDayCents:  p.RentPerDay,
		Rating:           p.Rating,
		Available:        available,
	}
}

// flattenEquipment normalizes a catalog entry. The equipment collection
// usually serves flat records but payload-wrapped ones appear too.
func flattenEquipment(raw json.RawMessage) (domain.Equipment, error) {
	var probe struct {
		ID      string          `json:"id"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.Equipment{}, fmt.Errorf("decode equipment document: %w", err)
	}

	var payload equipmentPayload
	if len(probe.Payload) > 0 {
		if err := json.Unmarshal(probe.Payload, &payload); err != nil {
			return domain.Equipment{}, fmt.Errorf("decode equipment payload: %w", err)
		}
		return payload.toDomain(probe.ID), nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Equipment{}, fmt.Errorf("decode flat equipment: %w", err)
	}
	return payload.toDomain(""), nil
}
