package pricing

import (
	"rentgear-storefront/internal/domain"
)

// All monetary amounts are cents.
const (
	// TaxRateBps is the GST rate applied to the cart subtotal, in basis points.
	TaxRateBps = 1800

	// FreeDeliveryThresholdCents is the subtotal above which delivery is free.
	FreeDeliveryThresholdCents = 500000

	// DeliveryFeeCents is the flat delivery fee below the free threshold.
	DeliveryFeeCents = 20000
)

// CheckoutSummary breaks a checkout total into its components.
type CheckoutSummary struct {
	SubtotalCents    int64
	DeliveryFeeCents int64
	TaxCents         int64
	TotalCents       int64
}

// UnitRate returns the snapshot rate matching the item's rental type.
func UnitRate(item domain.CartItem) int64 {
	if item.RentalType == domain.RentalTypeHour {
		return item.HourlyRateCents
	}
	return item.DailyRateCents
}

// LinePrice computes the add-time price of a new line item:
// unitRate(rentalType) × rentalDuration.
func LinePrice(eq domain.Equipment, rentalType domain.RentalType, rentalDuration int) int64 {
	rate := eq.RentPerDayCents
	if rentalType == domain.RentalTypeHour {
		rate = eq.RentPerHourCents
	}
	return rate * int64(rentalDuration)
}

// LineTotal computes the total for one line item. An explicit add-time price
// is used verbatim; items without one (some remotely-fetched documents) fall
// back to rate×quantity×duration. Both paths agree for consistent inputs.
func LineTotal(item domain.CartItem) int64 {
	if item.PriceCents != 0 {
		return item.PriceCents * int64(item.Quantity)
	}
	duration := item.RentalDuration
	if duration < 1 {
		duration = 1
	}
	return UnitRate(item) * int64(item.Quantity) * int64(duration)
}

// CartTotal sums line totals across all items in the cart.
func CartTotal(items []domain.CartItem) int64 {
	var total int64
	for _, item := range items {
		total += LineTotal(item)
	}
	return total
}

// Summarize applies the delivery fee and tax rules to a cart subtotal.
func Summarize(subtotalCents int64) CheckoutSummary {
	var fee int64
	if subtotalCents <= FreeDeliveryThresholdCents {
		fee = DeliveryFeeCents
	}
	tax := subtotalCents * TaxRateBps / 10000
	return CheckoutSummary{
		SubtotalCents:    subtotalCents,
		DeliveryFeeCents: fee,
		TaxCents:         tax,
		TotalCents:       subtotalCents + fee + tax,
	}
}
